package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/i18n"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a timed quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runPlay(cmd.Context(), rt.NewQuizService(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runPlay drives one attempt from line-oriented input until it completes or the player quits.
func runPlay(ctx context.Context, svc *app.QuizService, in io.Reader, out io.Writer) error {
	events, unsubscribe := svc.Subscribe()
	defer unsubscribe()
	defer svc.Reset()

	fmt.Fprintln(out, i18n.T(ctx, "LoadingQuestions"))
	snap, err := svc.Start(ctx)
	if err != nil {
		_, msg := i18n.Error(ctx, err)
		fmt.Fprintln(out, msg)
		return err
	}
	fmt.Fprintln(out, i18n.T(ctx, "PlayHelp"))
	renderQuestion(ctx, out, snap)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	warned := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case domain.EventCompleted:
				if ev.Forced {
					fmt.Fprintln(out, i18n.T(ctx, "TimeUp"))
				}
				if ev.Result != nil {
					renderResult(ctx, out, *ev.Result)
				}
				return nil
			case domain.EventTick:
				if ev.Warning && !warned {
					warned = true
					fmt.Fprintln(out, i18n.T(ctx, "TimeRunningOut"), formatSeconds(ev.Remaining))
				}
			}
		case line, ok := <-lines:
			if !ok || line == "q" {
				return nil
			}
			done, err := handleLine(ctx, svc, out, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func handleLine(ctx context.Context, svc *app.QuizService, out io.Writer, line string) (bool, error) {
	switch line {
	case "":
		renderQuestion(ctx, out, svc.Current())
	case "n":
		renderQuestion(ctx, out, svc.Navigate(1))
	case "p":
		renderQuestion(ctx, out, svc.Navigate(-1))
	case "s":
		res, err := svc.Submit(ctx)
		if errors.Is(err, domain.ErrIncompleteAnswers) {
			_, msg := i18n.Error(ctx, err)
			fmt.Fprintln(out, msg, i18n.Tp(ctx, "QuestionsAnswered", svc.Current().Answered))
			return false, nil
		}
		if errors.Is(err, domain.ErrInvalidState) {
			// the timer got there first; its completion event follows
			return false, nil
		}
		renderResult(ctx, out, res)
		return true, err
	default:
		n, err := strconv.Atoi(line)
		snap := svc.Current()
		if err != nil || snap.Question == nil || n < 1 || n > len(snap.Question.Options) {
			fmt.Fprintln(out, i18n.T(ctx, "UnknownCommand"), i18n.T(ctx, "PlayHelp"))
			return false, nil
		}
		if _, err := svc.SelectAnswer(snap.Index, snap.Question.Options[n-1]); err != nil {
			_, msg := i18n.Error(ctx, err)
			fmt.Fprintln(out, msg)
			return false, nil
		}
		if snap.Index < snap.Total-1 {
			renderQuestion(ctx, out, svc.Navigate(1))
		} else {
			renderQuestion(ctx, out, svc.Current())
		}
	}
	return false, nil
}

func renderQuestion(ctx context.Context, out io.Writer, snap app.Snapshot) {
	if snap.Question == nil {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s  [%s]  %s\n",
		i18n.Td(ctx, "QuestionN", map[string]any{"Index": snap.Index + 1, "Total": snap.Total}),
		snap.Question.Category,
		i18n.Td(ctx, "TimeRemaining", map[string]any{"Time": formatSeconds(snap.Remaining)}),
	)
	fmt.Fprintln(out, snap.Question.Text)
	for i, opt := range snap.Question.Options {
		marker := " "
		if opt == snap.Selected {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d) %s\n", marker, i+1, opt)
	}
}

func renderResult(ctx context.Context, out io.Writer, res domain.Result) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, i18n.T(ctx, "QuizCompleted"))
	fmt.Fprintln(out, i18n.Td(ctx, "ScoreLine", map[string]any{
		"Score":   res.Score,
		"Correct": res.CorrectAnswers,
		"Total":   res.TotalQuestions,
		"Time":    formatSeconds(res.TimeTaken),
	}))
	if app.Passed(res.Score) {
		fmt.Fprintln(out, i18n.T(ctx, "QuizPassed"))
	} else {
		fmt.Fprintln(out, i18n.Td(ctx, "QuizFailed", map[string]any{"PassMark": app.PassMark}))
	}
}

// formatSeconds renders a second count as m:ss.
func formatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
