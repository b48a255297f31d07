package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apix "github.com/tanpawarit/Chative-Storefront-Assistant/agent/api"
	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	conversationx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/conversation"
	llmx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/llm"
	personax "github.com/tanpawarit/Chative-Storefront-Assistant/agent/persona"
	promptx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/prompt"
	statex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/state"
	toolx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/tool"
	configx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/config"
	_ "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/logger/autoload"
	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

var (
	roleFlag  = flag.String("role", "customer", "persona for this session: customer or admin")
	demoFlag  = flag.Bool("demo", false, "run the scripted demo prompts instead of the interactive chat")
	serveFlag = flag.Bool("serve", false, "serve the HTTP chat API instead of the interactive chat")
)

var customerDemoPrompts = []string{
	"I'm looking for summer dresses under $50.",
	"Do you have this product available in size medium?",
	"Can you recommend best-selling products right now?",
	"Where is my order #45821?",
	"How long does shipping take to California?",
	"What is your return and refund policy?",
	"Do you offer any discounts or promo codes?",
	"Is this product available in black color?",
	"Can you suggest products similar to this one?",
	"I received a damaged item. What should I do?",
}

var adminDemoPrompts = []string{
	"Show me today's total sales and number of orders.",
	"What are my top 5 selling products this month?",
	"How many orders are currently unfulfilled?",
	"Which products are low in inventory?",
	"Show me sales performance for the last 7 days.",
	"Who are my top repeat customers?",
	"What is the average order value this month?",
	"List all refunded orders from this week.",
	"Which products have not sold in the last 30 days?",
	"Compare this month's sales with last month's sales.",
}

func main() {
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	shopifyCfg := configx.MustNew[shopifyx.Config]("SHOPIFY")
	sessionCfg := configx.MustNew[conversationx.Config]("SESSION")
	profile := configx.MustNew[promptx.StoreProfile]("STORE")

	role := strings.ToLower(strings.TrimSpace(*roleFlag))
	if role != "customer" && role != "admin" {
		log.Fatal().Str("role", role).Msg("role must be customer or admin")
	}

	log.Info().
		Str("role", role).
		Bool("demo", *demoFlag).
		Bool("serve", *serveFlag).
		Msg("starting storefront assistant")

	ctx := context.Background()

	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("openrouter configuration invalid")
	}
	if err := llmx.Preflight(ctx, *llmCfg); err != nil {
		log.Fatal().Err(err).Msg("openrouter preflight failed")
	}

	assistant, err := buildAssistant(ctx, *llmCfg, *shopifyCfg, *sessionCfg, *profile)
	if err != nil {
		log.Fatal().Err(err).Msg("assistant wiring failed")
	}

	switch {
	case *serveFlag:
		runServe(assistant)
	case *demoFlag:
		runDemo(ctx, assistant, role)
	default:
		runInteractive(ctx, assistant, role)
	}
}

func buildAssistant(
	ctx context.Context,
	llmCfg llmx.Config,
	shopifyCfg shopifyx.Config,
	sessionCfg conversationx.Config,
	profile promptx.StoreProfile,
) (contractx.Assistant, error) {
	client, err := shopifyx.NewClient(shopifyCfg)
	if err != nil {
		return nil, err
	}
	gateway := toolx.NewGateway(client)

	registry, err := personax.NewRegistry(ctx, llmCfg, profile)
	if err != nil {
		return nil, err
	}

	store, err := newSessionStore()
	if err != nil {
		return nil, err
	}

	return conversationx.New(store, registry, gateway, sessionCfg)
}

// newSessionStore picks Upstash Redis when its credentials are present so
// history survives restarts; otherwise sessions live in process memory.
func newSessionStore() (statex.Store, error) {
	if strings.TrimSpace(os.Getenv("UPSTASH_REDIS_URL")) == "" {
		log.Info().Msg("UPSTASH_REDIS_URL not set, using in-memory session store")
		return statex.NewMemoryStore(), nil
	}
	cfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	return statex.NewUpstashRedisStore(*cfg)
}

func runInteractive(ctx context.Context, assistant contractx.Assistant, role string) {
	sessionID := fmt.Sprintf("session-%s-%s", role, uuid.NewString()[:8])

	divider := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(divider)
	fmt.Printf("  Storefront Assistant — %s Mode\n", modeLabel(role))
	fmt.Printf("  Session ID: %s\n", sessionID)
	fmt.Println("  Type 'exit' or 'quit' to end the session.")
	fmt.Println(divider)
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nSession ended.")
			return
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "exit", "quit", "bye":
			fmt.Println("Goodbye!")
			return
		}

		fmt.Printf("\nAssistant: %s\n\n", runTurn(ctx, assistant, sessionID, role, text))
	}
}

func runDemo(ctx context.Context, assistant contractx.Assistant, role string) {
	prompts := customerDemoPrompts
	if role == "admin" {
		prompts = adminDemoPrompts
	}
	sessionID := fmt.Sprintf("demo-%s-%s", role, uuid.NewString()[:8])

	divider := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(divider)
	fmt.Printf("  DEMO MODE — Role: %s\n", strings.ToUpper(role))
	fmt.Println(divider)
	fmt.Println()

	for i, prompt := range prompts {
		fmt.Printf("[%d/%d] USER: %s\n", i+1, len(prompts), prompt)
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("ASSISTANT:\n%s\n", runTurn(ctx, assistant, sessionID, role, prompt))
		fmt.Println(divider)
		fmt.Println()
	}
}

func runServe(assistant contractx.Assistant) {
	apiCfg := configx.MustNew[apix.Config]("API")

	srv, err := apix.New(*apiCfg, assistant)
	if err != nil {
		log.Fatal().Err(err).Msg("api server init failed")
	}

	go func() {
		if err := srv.Run(); err != nil {
			log.Error().Err(err).Msg("api server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	timeout := apiCfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("api shutdown failed")
	}
	log.Info().Msg("api server closed")
}

// runTurn converts a failed turn into a printable message so upstream
// hiccups never end an interactive session.
func runTurn(ctx context.Context, assistant contractx.Assistant, sessionID, role, text string) string {
	reply, err := assistant.HandleTurn(ctx, contractx.TurnRequest{
		SessionID: sessionID,
		Role:      role,
		Text:      text,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		return fmt.Sprintf("System error: %v", err)
	}
	return reply.Reply
}

func modeLabel(role string) string {
	if role == "admin" {
		return "Admin"
	}
	return "Customer"
}
