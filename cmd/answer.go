package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/marchcraft/drover/pkg/work"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer [question-id] [answer...]",
	Short: "Answer a clarifying question",
	Long: `Answer a clarifying question raised by a blocked work item.
Once every question on an item is answered, the item returns to the
schedulable status it held before it blocked.

Without arguments, lists all unanswered questions.`,
	RunE: runAnswer,
}

func runAnswer(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return listQuestions(fs.Questions(), fs)
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: drover answer <question-id> <answer text>")
	}

	questionID := args[0]
	answer := strings.Join(args[1:], " ")

	if err := work.AnswerQuestion(fs, fs.Questions(), questionID, answer, time.Now()); err != nil {
		return fmt.Errorf("answer question: %w", err)
	}

	fmt.Printf("%s Answered %s\n", color.GreenString("✓"), questionID)
	return nil
}

func listQuestions(questions work.QuestionRepository, items work.ItemRepository) error {
	all, err := items.GetAll()
	if err != nil {
		return fmt.Errorf("load backlog: %w", err)
	}

	found := false
	for _, item := range all {
		qs, err := questions.GetByWorkItemID(item.ID)
		if err != nil {
			return fmt.Errorf("load questions for %s: %w", item.ID, err)
		}
		for _, q := range qs {
			if q.Answered() {
				continue
			}
			if !found {
				fmt.Println("Unanswered questions:")
				found = true
			}
			fmt.Printf("  %s %s (%s)\n", color.YellowString(q.ID), q.Question, item.ID)
		}
	}
	if !found {
		fmt.Println("No unanswered questions.")
	}
	return nil
}
