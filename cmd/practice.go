package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervue/internal/evaluation"
	"github.com/abhisek/intervue/internal/interview"
	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/session"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive interview session",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync() //nolint:errcheck

		svc, gateway, closeStore, err := buildService(cmd, log)
		if err != nil {
			return fmt.Errorf("build service: %w", err)
		}
		defer closeStore() //nolint:errcheck

		return runPractice(cmd, svc, gateway)
	},
}

func init() {
	practiceCmd.Flags().String("type", "technical", "interview type: technical, behavioral or project-defense")
	practiceCmd.Flags().String("role", "", "target role, e.g. \"backend engineer\" (required)")
	practiceCmd.Flags().StringSlice("tech", nil, "tech stack, comma separated, e.g. go,postgres")
	practiceCmd.Flags().String("experience", "mid", "experience tier: junior, mid or senior")
	practiceCmd.Flags().IntP("questions", "n", 5, "number of questions to ask")
	practiceCmd.MarkFlagRequired("role") //nolint:errcheck
}

func runPractice(cmd *cobra.Command, svc *interview.Service, gateway *llm.Gateway) error {
	ctx := cmd.Context()

	interviewType, _ := cmd.Flags().GetString("type")
	role, _ := cmd.Flags().GetString("role")
	tech, _ := cmd.Flags().GetStringSlice("tech")
	experience, _ := cmd.Flags().GetString("experience")
	total, _ := cmd.Flags().GetInt("questions")

	sess, err := svc.CreateSession(ctx, session.CreateParams{
		Owner:      os.Getenv("USER"),
		Type:       session.InterviewType(interviewType),
		Role:       role,
		TechStack:  tech,
		Experience: session.ExperienceTier(experience),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting %s interview for %s (%d questions). Finish each answer with an empty line.\n\n", sess.Type, sess.Role, total)
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := 0; i < total; i++ {
		q, err := svc.GenerateQuestion(ctx, sess.ID, interview.QuestionContext{})
		if err != nil {
			return fmt.Errorf("generate question: %w", err)
		}

		fmt.Printf("Q%d [%s, %s] %s\n> ", i+1, q.Topic, q.Difficulty, q.Text)
		started := time.Now()
		answer := readAnswer(in)
		if answer == "" {
			fmt.Println("(skipped)")
		}

		result, err := svc.SubmitAnswer(ctx, sess.ID, q.ID, answer, time.Since(started))
		if err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}
		ev := result.Evaluation
		fmt.Printf("\nScore %.1f/10: %s\n\n", ev.Overall, ev.Feedback)
	}

	ended, err := svc.EndSession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	fmt.Printf("Interview finished in %s (%d/%d answered).\n\n", ended.Duration, ended.QuestionsAnswered, ended.TotalQuestions)

	report, err := svc.GenerateReport(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	printReport(report)

	// Best effort: a streamed spoken-style wrap-up. The report above is
	// already complete, so stream failures are silently dropped.
	streamClosingFeedback(ctx, gateway, report)
	return nil
}

// readAnswer collects lines until the first empty one.
func readAnswer(in *bufio.Scanner) string {
	var lines []string
	for in.Scan() {
		line := in.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func printReport(r *evaluation.Report) {
	fmt.Printf("Overall score: %d/100 (%s readiness)\n", r.Aggregate.AverageScore, r.Aggregate.Readiness)
	fmt.Println("Recommendation:", r.Aggregate.Recommendation)

	s := r.Aggregate.Skills
	fmt.Printf("Skills: correctness %d, depth %d, clarity %d, practical %d, confidence %d\n",
		s.Correctness, s.Depth, s.Clarity, s.PracticalUnderstanding, s.Confidence)

	printList("Strengths", r.Aggregate.Strengths)
	printList("Weaknesses", r.Aggregate.Weaknesses)
	printList("Missed concepts", r.Aggregate.MissedConcepts)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, it := range items {
		fmt.Println("  -", it)
	}
}

func streamClosingFeedback(ctx context.Context, gateway *llm.Gateway, r *evaluation.Report) {
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "closing-feedback"), 30*time.Second)
	defer cancel()

	var sb strings.Builder
	fmt.Fprintf(&sb, "The candidate interviewed for %s (%s interview) and scored %d/100.\n", r.Role, r.Type, r.Aggregate.AverageScore)
	if len(r.Aggregate.Strengths) > 0 {
		fmt.Fprintf(&sb, "Strengths: %s.\n", strings.Join(r.Aggregate.Strengths, "; "))
	}
	if len(r.Aggregate.Weaknesses) > 0 {
		fmt.Fprintf(&sb, "Weaknesses: %s.\n", strings.Join(r.Aggregate.Weaknesses, "; "))
	}

	deltas, err := gateway.GenerateStream(ctx, llm.Request{
		System:    "You are an interview coach. In at most four sentences, give the candidate warm, specific parting advice based on the result below. Plain text only.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: sb.String()}},
		MaxTokens: 256,
	})
	if err != nil {
		return
	}

	fmt.Print("\n")
	for d := range deltas {
		if d.Err != nil {
			fmt.Println()
			return
		}
		fmt.Print(d.Text)
	}
	fmt.Println()
}
