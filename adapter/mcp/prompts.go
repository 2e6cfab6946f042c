package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common Digibank workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("onboard_customer").
		Description("Walk through validating customer data and registering a new user.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Customer Onboarding",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me register a new Digibank customer. Please:

1. Ask for name, email, CPF, phone, birth date and password hash
2. Check the CPF with validate.cpf and the email with validate.email
3. Check the phone with validate.phone. It must look like +55 (31) 12345-6789
4. Confirm the country resolved from the phone with the customer
5. Use user.get with the email and then the CPF to make sure neither is taken

Only call user.register once every check passes. If a check fails,
show the reason and ask for a corrected value.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("check_card").
		Description("Validate a payment card before it is attached to an account.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Card Check",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Check a payment card for me with validate.card.

Ask for the number, the holder name as printed, the expiration (MM/YY)
and the CVV. Report the brand and masked number. If the card is
rejected, name the failing field and its reason.

Never repeat the full card number or the CVV back in the conversation.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("account_review").
		Description("Review inactive accounts and decide which to reactivate or remove.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Account Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Review inactive Digibank accounts. Please:

1. Read the digibank://users/inactive resource
2. Group the accounts by last login, oldest first
3. Suggest which to reactivate with user.activate

Ask me before calling user.delete on any account.`,
						},
					},
				},
			}, nil
		})

	return nil
}
