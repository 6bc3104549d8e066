// Command chat is a terminal front end for the coaching API. It drives the
// session pipeline the same way the web client does: optimistic sends,
// automatic conversation persistence after the first exchange, and resume by
// conversation id.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/leadwise/coach/backend/internal/client"
	"github.com/leadwise/coach/backend/internal/config"
	"github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/session"
)

func main() {
	serverURL := flag.String("server", "", "coach API base URL (defaults to COACH_API_URL or http://localhost:8080)")
	topicID := flag.String("topic", "growth-profile", "coaching topic id")
	resumeID := flag.String("resume", "", "conversation id to resume")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	baseURL := *serverURL
	if baseURL == "" {
		baseURL = os.Getenv("COACH_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout, err := config.CoachTimeout()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	pipeline := session.NewPipeline(
		client.NewCoachClient(baseURL),
		client.NewConversationClient(baseURL),
		session.WithTimeout(timeout),
		session.WithLogger(log),
	)
	pipeline.OnPersisted(func(conv conversation.Conversation) {
		log.Info().Str("conversation_id", conv.ID).Int("messages", conv.MessageCount).Msg("conversation saved")
	})

	if *resumeID != "" {
		if err := pipeline.Resume(ctx, *resumeID); err != nil {
			log.Warn().Err(err).Msg("cannot resume right now")
		}
		for _, msg := range pipeline.Messages() {
			printMessage(msg)
		}
	}

	fmt.Printf("Coaching topic: %s. Type a message, /clear to start over, /quit to exit.\n", *topicID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case text == "/quit":
			return
		case text == "/clear":
			if err := pipeline.Clear(); err != nil {
				log.Warn().Err(err).Msg("cannot clear right now")
				continue
			}
			fmt.Println("Started a fresh conversation.")
			continue
		}

		if err := pipeline.SendMessage(ctx, text, *topicID); err != nil {
			log.Warn().Err(err).Msg("send rejected")
			continue
		}

		msgs := pipeline.Messages()
		if len(msgs) > 0 {
			printMessage(msgs[len(msgs)-1])
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("input error")
	}
}

func printMessage(msg conversation.Message) {
	prefix := "you"
	if msg.Sender == conversation.SenderAI {
		prefix = "coach"
	}
	fmt.Printf("[%s] %s\n", prefix, msg.Text)
}
