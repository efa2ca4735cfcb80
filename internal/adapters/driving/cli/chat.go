package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Ask the model a single question",
	Long: `Send one prompt to the chat model and print the reply.

Without a prompt, "Hello, Who Are you!" is sent. The provider is ollama
(default model llama3) or openai (default model gpt-4, needs OPENAI_API_KEY).`,
	RunE: runChat,
}

var (
	chatProvider string
	chatModel    string
)

func init() {
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", string(domain.AIProviderOllama), "Model provider: ollama or openai")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model name (default depends on the provider)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.NewAsker == nil {
		return errors.New("chat service not configured")
	}

	provider := domain.AIProvider(strings.ToLower(chatProvider))
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, chatProvider)
	}
	model := chatModel
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	asker, err := s.NewAsker(provider, model)
	if err != nil {
		return err
	}

	prompt := strings.Join(args, " ")
	reply, err := asker.Ask(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	cmd.Println(reply)
	return nil
}
