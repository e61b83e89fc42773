package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"debatecore/internal/export"
	"debatecore/internal/lifecycle"
	"debatecore/internal/transcript"
)

// Output formats for ask
const (
	formatAuto     = "auto"
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// newAskCmd creates the "debatecore ask" subcommand.
func newAskCmd(e *env) *cobra.Command {
	var format string
	var width int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run one debate and print the transcript",
		Long: "Sends the question to the backend, waits for the debate to finish\n" +
			"and prints every round followed by the evidence list.\n" +
			"The default format renders markdown on a terminal and prints it raw otherwise.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatAuto, formatText, formatMarkdown, formatJSON:
			default:
				return fmt.Errorf("unknown format %q (want auto, text, markdown or json)", format)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			m, err := ask(ctx, e, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeTranscript(cmd, m, format, width)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "output format: auto, text, markdown, json")
	cmd.Flags().IntVar(&width, "width", 100, "wrap width for rendered output")
	return cmd
}

// ask runs a single query through the query controller and waits for it
func ask(ctx context.Context, e *env, question string) (transcript.PresentationModel, error) {
	qc := lifecycle.NewQueryController(e.gw, nil,
		lifecycle.WithLogger(e.logger),
		lifecycle.WithContext(ctx))
	defer qc.Close()

	if err := qc.Submit(question); err != nil {
		if lifecycle.IsValidation(err) {
			return transcript.PresentationModel{}, errors.New("question is empty")
		}
		return transcript.PresentationModel{}, err
	}
	qc.Wait()

	state := qc.State()
	if state.Phase != lifecycle.Succeeded {
		return transcript.PresentationModel{}, errors.New(state.Message)
	}
	return transcript.Present(state.Payload), nil
}

func writeTranscript(cmd *cobra.Command, m transcript.PresentationModel, format string, width int) error {
	out := cmd.OutOrStdout()

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(m))

	case formatText:
		_, err := fmt.Fprint(out, export.PlainText(m))
		return err

	case formatMarkdown:
		_, err := fmt.Fprint(out, export.Markdown(m))
		return err
	}

	md := export.Markdown(m)
	if !isTerminal(out) {
		_, err := fmt.Fprint(out, md)
		return err
	}
	rendered, err := export.Render(md, width, "")
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

type jsonRound struct {
	Agent     string `json:"agent"`
	Label     string `json:"label"`
	IsVerdict bool   `json:"is_verdict"`
	Content   string `json:"content"`
}

type jsonVerdict struct {
	DirectAnswer string `json:"direct_answer,omitempty"`
	Breakdown    string `json:"breakdown,omitempty"`
	Context      string `json:"context,omitempty"`
	Structured   bool   `json:"structured"`
}

type jsonTranscript struct {
	Query      string       `json:"query"`
	Rounds     []jsonRound  `json:"rounds"`
	Sources    []string     `json:"sources"`
	JudgeScore *float64     `json:"judge_score,omitempty"`
	Verdict    *jsonVerdict `json:"verdict,omitempty"`
}

func toJSON(m transcript.PresentationModel) jsonTranscript {
	out := jsonTranscript{
		Query:   m.Query,
		Rounds:  make([]jsonRound, 0, len(m.RoundViews)),
		Sources: m.EvidenceList,
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	for _, r := range m.RoundViews {
		out.Rounds = append(out.Rounds, jsonRound{
			Agent:     r.Agent.String(),
			Label:     r.AgentLabel,
			IsVerdict: r.IsVerdict,
			Content:   r.BodyText,
		})
	}
	if m.Score.Found {
		v := m.Score.Value
		out.JudgeScore = &v
	}
	if m.Verdict.DirectAnswer != "" {
		out.Verdict = &jsonVerdict{
			DirectAnswer: m.Verdict.DirectAnswer,
			Breakdown:    m.Verdict.Breakdown,
			Context:      m.Verdict.Context,
			Structured:   m.Verdict.Structured,
		}
	}
	return out
}
