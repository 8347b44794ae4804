package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Experian API gateway",
	Long:  `Log in with the configured credentials and display the issued token details.`,
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	// initializeApp has already logged in
	fmt.Printf("Logged in to %s\n", client.BasePath())
	fmt.Printf("- Token type: %s\n", token.TokenType)
	fmt.Printf("- Issued at: %s\n", token.IssuedAt)
	fmt.Printf("- Expires in: %s seconds\n", token.ExpiresIn)
	fmt.Printf("- Access token: %s\n", redact(token.AccessToken))
	return nil
}

// redact keeps only the first characters of a secret
func redact(secret string) string {
	const visible = 8
	if len(secret) <= visible {
		return "********"
	}
	return secret[:visible] + "..."
}
