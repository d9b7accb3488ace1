package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/oakmund/deskagent/memory"
)

// runCLI is the plain terminal loop: read a line, run the assistant turn to
// completion (feeding tool results back), persist the text transcript.
func runCLI(a *app) error {
	persisted, err := memory.LoadConversation(a.persistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load persisted conversation: %v\n", err)
	}

	conv := make([]anthropic.MessageParam, 0, len(persisted))
	for _, m := range persisted {
		if m.Role == "user" {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("deskagent in %s (Ctrl-C to quit)\n", a.root)

	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

		assistantText, newConv, err := runTurn(ctx, a, conv)
		conv = newConv
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		persisted = append(persisted, memory.Message{Role: "user", Text: user})
		if strings.TrimSpace(assistantText) != "" {
			persisted = append(persisted, memory.Message{Role: "assistant", Text: assistantText})
		}
		if err := memory.SaveConversation(a.persistPath, persisted); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save conversation: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
	return nil
}

// runTurn drives one assistant turn to completion, feeding tool results back
// to the model until it stops requesting tools. It returns the concatenated
// assistant text and the extended conversation buffer.
func runTurn(ctx context.Context, a *app, conv []anthropic.MessageParam) (string, []anthropic.MessageParam, error) {
	var assistantText string
	for {
		msg, toolResults, err := a.runner.RunOneStep(ctx, a.model, conv)
		if err != nil {
			return assistantText, conv, err
		}
		conv = append(conv, msg.ToParam())
		for _, b := range msg.Content {
			if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
				if assistantText == "" {
					assistantText = tb.Text
				} else {
					assistantText += "\n" + tb.Text
				}
			}
		}
		if len(toolResults) == 0 {
			return assistantText, conv, nil
		}
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}
}
