// cmd/scholarship-assistant/ask.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/server"

	"github.com/spf13/cobra"
)

type askFlags struct {
	userID string
	finder map[string]string
}

func newAskCmd(flags *rootFlags) *cobra.Command {
	af := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Run one chat request through the pipeline and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// stdout carries the response
			zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, "stderr")
			defer func() { _ = zapLog.Sync() }()
			log := logger.NewZapAdapter(zapLog)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a := newApp(ctx, cfg, log, connectOptions{retries: 1})
			defer a.close()

			req := buildAskRequest(strings.Join(args, " "), af)
			return runAsk(ctx, a.chat, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&af.userID, "user", "", "User id used for the intake record lookup")
	cmd.Flags().StringToStringVar(&af.finder, "finder", nil, "Finder fields, e.g. --finder nationality=Kenya,gpa=3.4")

	return cmd
}

func buildAskRequest(message string, af *askFlags) *models.ChatRequest {
	req := &models.ChatRequest{Message: message, UserID: af.userID}
	if len(af.finder) == 0 {
		return req
	}

	data := make(map[string]interface{}, len(af.finder))
	for k, v := range af.finder {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			data[k] = f
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			data[k] = b
			continue
		}
		data[k] = v
	}
	req.Context = &models.ChatContext{FinderData: data}
	return req
}

func runAsk(ctx context.Context, chat server.ChatService, req *models.ChatRequest, out io.Writer) error {
	resp, err := chat.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
