package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/config"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/sender"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/session"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/webhook"
	"github.com/jimmartinquisitive/talkflow-n8n/storage"
)

type consoleNotifier struct{}

func (consoleNotifier) Error(message string) {
	fmt.Fprintln(os.Stderr, message)
}

func main() {
	ctx := context.Background()
	godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}

	db, err := storage.NewSqliteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %s", cfg.DatabasePath, err)
	}
	defer db.Close()

	persister, err := storage.NewStore(db)
	if err != nil {
		log.Fatalf("Failed to init storage: %s", err)
	}

	store := session.NewStore(persister)
	persisted, err := persister.Load()
	if err != nil {
		log.Fatalf("Failed to load sessions: %s", err)
	}
	store.Restore(persisted)

	if _, err := store.Current(); err != nil {
		if _, err := store.Create(); err != nil {
			log.Fatalf("Failed to create session: %s", err)
		}
	}

	client := webhook.NewClient(cfg.WebhookURL, cfg.WebhookUsername, cfg.WebhookSecret, cfg.RequestTimeout)
	typing := func(active bool) {
		if active {
			fmt.Printf("%s is typing...\n", cfg.AssistantName)
		}
	}
	snd := sender.New(cfg, client, store, consoleNotifier{}, typing)

	fmt.Printf("Chatting with %s. Type /help for commands.\n", cfg.AssistantName)
	repl(ctx, cfg, snd, store)
}

func repl(ctx context.Context, cfg *config.Config, snd *sender.Sender, store *session.Store) {
	reader := bufio.NewReader(os.Stdin)
	var pendingFile string

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(line, store, &pendingFile); quit {
				return
			}
			continue
		}

		current, err := store.Current()
		if err != nil {
			fmt.Println("No session selected. Use /new to start one.")
			continue
		}

		filePath := pendingFile
		pendingFile = ""
		if err := snd.Send(ctx, line, current.ID, filePath); err != nil {
			slog.Error("Failed to send message", "error", err)
			continue
		}

		current, err = store.Current()
		if err != nil {
			continue
		}
		last := current.Messages[len(current.Messages)-1]
		fmt.Printf("%s: %s\n", cfg.AssistantName, last.Content)
	}
}

func runCommand(line string, store *session.Store, pendingFile *string) bool {
	parts := strings.SplitN(line, " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/help":
		fmt.Println("/new, /list, /select <id>, /rename <title>, /favorite, /delete, /attach <path>, /quit")

	case "/new":
		if _, err := store.Create(); err != nil {
			fmt.Println("Failed to create session:", err)
		}

	case "/list":
		current, _ := store.Current()
		for _, s := range store.List() {
			marker := " "
			if current != nil && s.ID == current.ID {
				marker = "*"
			}
			favorite := ""
			if s.IsFavorite {
				favorite = " [fav]"
			}
			fmt.Printf("%s %s  %s%s (%d messages)\n", marker, s.ID, s.Title, favorite, len(s.Messages))
		}

	case "/select":
		if err := store.Select(arg); err != nil {
			fmt.Println("Failed to select session:", err)
		}

	case "/rename":
		current, err := store.Current()
		if err != nil {
			fmt.Println("No session selected.")
			break
		}
		if err := store.Rename(current.ID, arg); err != nil {
			fmt.Println("Failed to rename session:", err)
		}

	case "/favorite":
		current, err := store.Current()
		if err != nil {
			fmt.Println("No session selected.")
			break
		}
		favorite, err := store.ToggleFavorite(current.ID)
		if err != nil {
			fmt.Println("Failed to toggle favorite:", err)
			break
		}
		fmt.Println("Favorite:", favorite)

	case "/delete":
		current, err := store.Current()
		if err != nil {
			fmt.Println("No session selected.")
			break
		}
		if err := store.Delete(current.ID); err != nil {
			fmt.Println("Failed to delete session:", err)
		}

	case "/attach":
		if arg == "" {
			fmt.Println("Usage: /attach <path>")
			break
		}
		*pendingFile = arg
		fmt.Println("Attachment will be sent with the next message.")

	case "/quit":
		return true

	default:
		fmt.Println("Unknown command. Type /help for commands.")
	}
	return false
}
