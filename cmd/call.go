package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/experian/endpoints"
	"github.com/s0up4200/experian/experian"
	"github.com/s0up4200/experian/filter"
)

var (
	requestData string
	requestFile string
	outputExpr  string
)

var familyDescriptions = map[string]string{
	endpoints.FamilyBusiness:      "Business Information endpoints",
	endpoints.FamilyBOP:           "Business Owner Profile endpoints",
	endpoints.FamilySBCS:          "Small Business Credit Share endpoints",
	endpoints.FamilyCreditProfile: "Consumer Credit Profile endpoints",
}

// endpointCommands builds one command per family with a subcommand per endpoint
func endpointCommands(catalog []endpoints.Info) []*cobra.Command {
	families := make(map[string]*cobra.Command)
	var order []*cobra.Command

	for _, info := range catalog {
		familyCmd, ok := families[info.Family]
		if !ok {
			familyCmd = &cobra.Command{
				Use:   info.Family,
				Short: familyDescriptions[info.Family],
			}
			families[info.Family] = familyCmd
			order = append(order, familyCmd)
		}

		endpointCmd := &cobra.Command{
			Use:   info.Name,
			Short: "POST " + info.Path,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCall(cmd, info.Family, info.Name)
			},
		}
		endpointCmd.Flags().StringVar(&requestData, "data", "", "request body as JSON")
		endpointCmd.Flags().StringVarP(&requestFile, "file", "f", "", "read the request body from a JSON or YAML file")
		endpointCmd.Flags().StringVarP(&outputExpr, "expr", "e", "", "expression selecting part of the response")
		endpointCmd.MarkFlagsMutuallyExclusive("data", "file")
		familyCmd.AddCommand(endpointCmd)
	}

	return order
}

func runCall(cmd *cobra.Command, family, name string) error {
	ep, err := registry.Lookup(family, name)
	if err != nil {
		return err
	}

	var stdin io.Reader
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		stdin = cmd.InOrStdin()
	}
	body, err := readRequest(requestData, requestFile, stdin)
	if err != nil {
		return err
	}

	logger.Debug().Str("endpoint", ep.Path).Msg("Calling endpoint")

	result, err := ep.Call(cmd.Context(), body)
	if err != nil {
		var domErr *experian.DomainError
		if errors.As(err, &domErr) && len(domErr.Body) > 0 {
			// show Experian's own error payload before failing
			_ = render(cmd.OutOrStdout(), domErr.Body, "")
		}
		return err
	}

	return render(cmd.OutOrStdout(), result, outputExpr)
}

// readRequest returns the request body from --data, --file or stdin, in that
// order. It returns nil when none is given.
func readRequest(data, file string, stdin io.Reader) (any, error) {
	switch {
	case data != "":
		return decodeJSON([]byte(data))
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read request file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			var body any
			if err := yaml.Unmarshal(raw, &body); err != nil {
				return nil, fmt.Errorf("invalid YAML request: %w", err)
			}
			return body, nil
		default:
			return decodeJSON(raw)
		}
	case stdin != nil:
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		return decodeJSON(raw)
	}
	return nil, nil
}

func decodeJSON(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// render writes body as indented JSON, or the value expression selects from it
func render(w io.Writer, body []byte, expression string) error {
	if expression == "" {
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			// not JSON, e.g. an HTML report
			_, err = w.Write(body)
			return err
		}
		out.WriteByte('\n')
		_, err := out.WriteTo(w)
		return err
	}

	query, err := filter.Compile(expression)
	if err != nil {
		return err
	}
	value, err := query.Evaluate(body)
	if err != nil {
		return err
	}

	if s, ok := value.(string); ok {
		_, err = fmt.Fprintln(w, s)
		return err
	}
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
