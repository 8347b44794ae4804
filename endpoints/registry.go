// Package endpoints indexes every Experian endpoint by family and name so that
// callers holding only strings (CLI arguments, batch files, HTTP routes) can reach
// them.
package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/s0up4200/experian/experian"
	"github.com/s0up4200/experian/experian/business"
	"github.com/s0up4200/experian/experian/businessowners"
	"github.com/s0up4200/experian/experian/creditprofile"
	"github.com/s0up4200/experian/experian/sbcs"
)

// Family names
const (
	FamilyBusiness      = "business"
	FamilyBOP           = "bop"
	FamilySBCS          = "sbcs"
	FamilyCreditProfile = "creditprofile"
)

var catalog = map[string]struct {
	root  string
	paths map[string]string
}{
	FamilyBusiness:      {business.Root, business.Paths},
	FamilyBOP:           {businessowners.Root, businessowners.Paths},
	FamilySBCS:          {sbcs.Root, sbcs.Paths},
	FamilyCreditProfile: {creditprofile.Root, creditprofile.Paths},
}

// Info describes an endpoint without binding it to a session
type Info struct {
	Family string
	Name   string
	Path   string
}

// Catalog lists every endpoint sorted by family then name. It needs no client,
// so command trees and documentation can be built before logging in.
func Catalog() []Info {
	var infos []Info
	for family, group := range catalog {
		for _, suffix := range group.paths {
			infos = append(infos, Info{Family: family, Name: Name(suffix), Path: group.root + "/" + suffix})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Family != infos[j].Family {
			return infos[i].Family < infos[j].Family
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// CallFunc posts a request body and returns the verbatim response body
type CallFunc func(ctx context.Context, body any) (json.RawMessage, error)

// Endpoint is one callable endpoint
type Endpoint struct {
	Family string
	Name   string
	Path   string
	Call   CallFunc
}

// Registry holds the endpoints of all families, bound to one session
type Registry struct {
	Business      *business.Service
	BOP           *businessowners.Service
	SBCS          *sbcs.Service
	CreditProfile *creditprofile.Service

	client    *experian.Client
	endpoints map[string]map[string]Endpoint
}

// New builds a registry whose services all share client
func New(client *experian.Client) *Registry {
	r := &Registry{
		Business:      business.New(client),
		BOP:           businessowners.New(client),
		SBCS:          sbcs.New(client),
		CreditProfile: creditprofile.New(client),
		client:        client,
		endpoints:     make(map[string]map[string]Endpoint),
	}

	for _, suffix := range business.Paths {
		r.add(FamilyBusiness, business.Root, suffix, func(ctx context.Context, suffix string, body any) (json.RawMessage, error) {
			resp, err := r.Business.Call(ctx, suffix, body)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
	}
	for _, suffix := range businessowners.Paths {
		r.add(FamilyBOP, businessowners.Root, suffix, func(ctx context.Context, suffix string, body any) (json.RawMessage, error) {
			resp, err := r.BOP.Call(ctx, suffix, body)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
	}
	for _, suffix := range sbcs.Paths {
		r.add(FamilySBCS, sbcs.Root, suffix, func(ctx context.Context, suffix string, body any) (json.RawMessage, error) {
			resp, err := r.SBCS.Call(ctx, suffix, body)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
	}
	for _, suffix := range creditprofile.Paths {
		r.add(FamilyCreditProfile, creditprofile.Root, suffix, func(ctx context.Context, suffix string, body any) (json.RawMessage, error) {
			resp, err := r.CreditProfile.Call(ctx, suffix, body)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
	}

	return r
}

// Client returns the session shared by every endpoint
func (r *Registry) Client() *experian.Client {
	return r.client
}

func (r *Registry) add(family, root, suffix string, call func(context.Context, string, any) (json.RawMessage, error)) {
	if r.endpoints[family] == nil {
		r.endpoints[family] = make(map[string]Endpoint)
	}
	name := Name(suffix)
	r.endpoints[family][name] = Endpoint{
		Family: family,
		Name:   name,
		Path:   root + "/" + suffix,
		Call: func(ctx context.Context, body any) (json.RawMessage, error) {
			return call(ctx, suffix, body)
		},
	}
}

// Name converts a path suffix to its endpoint name, e.g. "scores/search" to
// "scores-search".
func Name(suffix string) string {
	return strings.ToLower(strings.ReplaceAll(suffix, "/", "-"))
}

// Lookup returns the endpoint name in family
func (r *Registry) Lookup(family, name string) (Endpoint, error) {
	byName, ok := r.endpoints[strings.ToLower(family)]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: unknown family %q", ErrUnknownEndpoint, family)
	}
	ep, ok := byName[strings.ToLower(name)]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s has no endpoint %q", ErrUnknownEndpoint, family, name)
	}
	return ep, nil
}

// Families returns the family names in sorted order
func (r *Registry) Families() []string {
	families := make([]string, 0, len(r.endpoints))
	for family := range r.endpoints {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// Family returns the endpoints of one family sorted by name
func (r *Registry) Family(family string) []Endpoint {
	byName := r.endpoints[family]
	list := make([]Endpoint, 0, len(byName))
	for _, ep := range byName {
		list = append(list, ep)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// List returns all endpoints sorted by family then name
func (r *Registry) List() []Endpoint {
	var list []Endpoint
	for _, family := range r.Families() {
		list = append(list, r.Family(family)...)
	}
	return list
}
