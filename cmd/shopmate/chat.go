package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shopmate/internal/config"
	"shopmate/internal/shell"
	"shopmate/internal/shopclient"
	"shopmate/internal/widget"
)

var (
	chatUser     string
	chatPassword string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the shopping assistant from the terminal",
	Long: `Runs the chat widget against a running ShopMate server. Type a message and
press Enter. Commands: /cart <id>, /clear, /export, /quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client := shopclient.New(cfg.BackendURL, cfg.RequestTimeout).Session(uuid.NewString())
		if err := client.Login(ctx, chatUser, chatPassword); err != nil {
			return fmt.Errorf("signing in as %s: %w", chatUser, err)
		}

		notifier := shell.NewNotifier(nil, cfg.ToastTTL)
		notifier.OnShow = printToast
		ctrl := widget.New(client, widget.Options{
			Notifier:   notifier,
			Store:      shell.NewMapStore(),
			DraftDelay: cfg.DraftDelay,
		})
		ctrl.Init(ctx)

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Println(boldGreen("🛍️  ShopMate AI"))
		fmt.Printf("Connected to %s as %s\n\n", cfg.BackendURL, color.CyanString(chatUser))

		t := &transcript{}
		t.flush(ctrl)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(boldGreen("You: "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())

			switch {
			case line == "/quit" || line == "exit":
				return nil
			case line == "/clear":
				ctrl.Clear(ctx)
			case line == "/export":
				name, body := ctrl.Export()
				if err := os.WriteFile(name, body, 0644); err != nil {
					color.Red("could not write %s: %v", name, err)
				}
			case strings.HasPrefix(line, "/cart "):
				id, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "/cart ")), 10, 64)
				if err != nil || id <= 0 {
					color.Red("usage: /cart <product id>")
					continue
				}
				ctrl.AddToCart(ctx, id)
			default:
				if err := ctrl.Submit(ctx, line); errors.Is(err, widget.ErrEmptyMessage) {
					continue
				}
			}
			t.flush(ctrl)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "demo", "username to sign in with")
	chatCmd.Flags().StringVarP(&chatPassword, "password", "p", "shopmate1", "password")
}

// transcript prints entries the terminal has not shown yet.
type transcript struct {
	shown int
}

func (t *transcript) flush(ctrl *widget.Controller) {
	v, err := ctrl.Snapshot()
	if err != nil {
		color.Red("render failed: %v", err)
		return
	}
	if len(v.Entries) < t.shown {
		// cleared
		t.shown = 0
	}
	bot := color.New(color.FgCyan, color.Bold).SprintFunc()
	for _, e := range v.Entries[t.shown:] {
		switch m := e.(type) {
		case widget.BotMessage:
			fmt.Printf("%s %s\n\n", bot("ShopMate AI:"), widget.PlainText(m.Text))
		case widget.ErrorMessage:
			fmt.Printf("%s %s\n\n", bot("ShopMate AI:"), color.RedString(m.Text))
		case widget.ProductCardBlock:
			for _, p := range m.Products {
				fmt.Printf("  [%d] %s  %s\n", p.ID, p.Title, color.YellowString(shell.FormatCurrency(p.Price)))
			}
			fmt.Println()
		}
	}
	t.shown = len(v.Entries)
	if v.CartCount > 0 {
		fmt.Printf("🛒 %d\n", v.CartCount)
	}
}

func printToast(t shell.Toast) {
	c := color.New(color.FgBlue)
	switch t.Kind {
	case shell.Success:
		c = color.New(color.FgGreen)
	case shell.Error:
		c = color.New(color.FgRed)
	case shell.Warning:
		c = color.New(color.FgYellow)
	}
	c.Fprintf(os.Stderr, "» %s\n", t.Message)
}
