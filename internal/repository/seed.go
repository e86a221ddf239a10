package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"undergraduation-admin/internal/models"
)

// Seed loads the demo dataset relative to now. It does nothing and returns
// false when the demo students are already present.
func Seed(ctx context.Context, store Store, now time.Time) (bool, error) {
	if _, err := store.GetStudent(ctx, "stu_001"); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	days := func(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }

	students := []models.Student{
		{ID: "stu_001", Name: "Ava Johnson", Email: "ava@example.com", Phone: "+1-555-123-4567", Grade: "12", Country: "USA", Status: models.StatusExploring, LastActiveAt: days(2), CreatedAt: days(20), Flags: models.NewFlags(models.FlagHighIntent)},
		{ID: "stu_002", Name: "Rohan Patel", Email: "rohan@example.com", Phone: "+91-90000-00000", Grade: "11", Country: "India", Status: models.StatusShortlisting, LastActiveAt: days(9), CreatedAt: days(40), Flags: models.NewFlags(models.FlagNotContacted7d, models.FlagNeedsEssayHelp)},
		{ID: "stu_003", Name: "Sara Chen", Email: "sara@example.com", Phone: "+65-8000-0000", Grade: "12", Country: "Singapore", Status: models.StatusApplying, LastActiveAt: days(1), CreatedAt: days(10), Flags: models.NewFlags(models.FlagHighIntent)},
		{ID: "stu_004", Name: "Miguel Torres", Email: "miguel@example.com", Phone: "+52-55-1234-5678", Grade: "12", Country: "Mexico", Status: models.StatusSubmitted, LastActiveAt: days(3), CreatedAt: days(60), Flags: models.NewFlags(models.FlagHighIntent)},
		{ID: "stu_005", Name: "Emma Smith", Email: "emma@example.co.uk", Phone: "+44-20-7000-0000", Grade: "11", Country: "United Kingdom", Status: models.StatusExploring, LastActiveAt: days(14), CreatedAt: days(25), Flags: models.NewFlags(models.FlagNotContacted7d)},
		{ID: "stu_006", Name: "Li Wei", Email: "liwei@example.cn", Phone: "+86-10-8888-0000", Grade: "12", Country: "China", Status: models.StatusShortlisting, LastActiveAt: days(5), CreatedAt: days(35), Flags: models.NewFlags(models.FlagNeedsEssayHelp)},
		{ID: "stu_007", Name: "Priya Singh", Email: "priya@example.in", Phone: "+91-98-7654-3210", Grade: "12", Country: "India", Status: models.StatusApplying, LastActiveAt: days(2), CreatedAt: days(18), Flags: models.NewFlags(models.FlagHighIntent)},
		{ID: "stu_008", Name: "Noah Williams", Email: "noah@example.ca", Phone: "+1-604-555-0000", Grade: "11", Country: "Canada", Status: models.StatusSubmitted, LastActiveAt: days(6), CreatedAt: days(50), Flags: models.NewFlags()},
		{ID: "stu_009", Name: "Hana Kim", Email: "hana@example.kr", Phone: "+82-2-555-7777", Grade: "12", Country: "South Korea", Status: models.StatusExploring, LastActiveAt: days(7), CreatedAt: days(12), Flags: models.NewFlags(models.FlagNotContacted7d)},
		{ID: "stu_010", Name: "Luca Rossi", Email: "luca@example.it", Phone: "+39-06-1234-5678", Grade: "12", Country: "Italy", Status: models.StatusShortlisting, LastActiveAt: days(4), CreatedAt: days(22), Flags: models.NewFlags(models.FlagNeedsEssayHelp)},
	}
	for i := range students {
		if err := store.UpsertStudent(ctx, &students[i]); err != nil {
			return false, fmt.Errorf("seed student %s: %w", students[i].ID, err)
		}
	}

	interactions := []models.Interaction{
		{ID: "int_001", StudentID: "stu_001", Type: models.InteractionLogin, CreatedAt: days(1)},
		{ID: "int_002", StudentID: "stu_001", Type: models.InteractionAIQuestion, Metadata: map[string]interface{}{"q": "How to shortlist colleges?"}, CreatedAt: days(2)},
		{ID: "int_003", StudentID: "stu_001", Type: models.InteractionDocumentUpload, Metadata: map[string]interface{}{"name": "Transcript.pdf"}, CreatedAt: days(3)},
		{ID: "int_004", StudentID: "stu_003", Type: models.InteractionLogin, CreatedAt: days(1)},
		{ID: "int_005", StudentID: "stu_003", Type: models.InteractionDocumentUpload, Metadata: map[string]interface{}{"name": "Essay_draft.docx"}, CreatedAt: days(2)},
		{ID: "int_006", StudentID: "stu_007", Type: models.InteractionAIQuestion, Metadata: map[string]interface{}{"q": "CommonApp tips"}, CreatedAt: days(1)},
	}
	for i := range interactions {
		if err := store.AddInteraction(ctx, &interactions[i]); err != nil {
			return false, fmt.Errorf("seed interaction %s: %w", interactions[i].ID, err)
		}
	}

	comms := []models.Communication{
		{ID: "comm_001", StudentID: "stu_001", Channel: models.ChannelEmail, Subject: "Welcome to Undergraduation", Body: "Hi Ava, welcome aboard!", CreatedAt: days(1), CreatedBy: "seed"},
		{ID: "comm_002", StudentID: "stu_001", Channel: models.ChannelSMS, Body: "Reminder: shortlist review on Friday", CreatedAt: days(3), CreatedBy: "seed"},
		{ID: "comm_003", StudentID: "stu_003", Channel: models.ChannelEmail, Subject: "Essay feedback", Body: "Comments on your draft are attached.", CreatedAt: days(2), CreatedBy: "seed"},
		{ID: "comm_004", StudentID: "stu_003", Channel: models.ChannelCall, Body: "Discussed application timeline", CreatedAt: days(5), CreatedBy: "seed"},
		{ID: "comm_005", StudentID: "stu_004", Channel: models.ChannelEmail, Subject: "Application received", Body: "Congratulations on submitting!", CreatedAt: days(4), CreatedBy: "seed"},
		{ID: "comm_006", StudentID: "stu_006", Channel: models.ChannelSMS, Body: "Essay workshop this Saturday", CreatedAt: days(6), CreatedBy: "seed"},
		{ID: "comm_007", StudentID: "stu_007", Channel: models.ChannelCall, Body: "CommonApp walkthrough", CreatedAt: days(1), CreatedBy: "seed"},
		{ID: "comm_008", StudentID: "stu_007", Channel: models.ChannelEmail, Subject: "Recommendation letters", Body: "Checklist for recommenders.", CreatedAt: days(8), CreatedBy: "seed"},
		{ID: "comm_009", StudentID: "stu_008", Channel: models.ChannelEmail, Subject: "Next steps", Body: "Decisions arrive in March.", CreatedAt: days(12), CreatedBy: "seed"},
		{ID: "comm_010", StudentID: "stu_009", Channel: models.ChannelSMS, Body: "Welcome! Reply with questions anytime.", CreatedAt: days(10), CreatedBy: "seed"},
		{ID: "comm_011", StudentID: "stu_010", Channel: models.ChannelEmail, Subject: "Essay resources", Body: "A few guides to get started.", CreatedAt: days(9), CreatedBy: "seed"},
		{ID: "comm_012", StudentID: "stu_002", Channel: models.ChannelEmail, Subject: "Checking in", Body: "How is the shortlist going?", CreatedAt: days(20), CreatedBy: "seed"},
	}
	for i := range comms {
		if err := store.AddCommunication(ctx, &comms[i]); err != nil {
			return false, fmt.Errorf("seed communication %s: %w", comms[i].ID, err)
		}
	}

	due := days(-3)
	tasks := []models.Task{
		{ID: "task_001", StudentID: "stu_002", Title: "Review essay outline", DueAt: &due, Status: models.TaskPending, Assignee: "counselor", CreatedAt: days(5)},
		{ID: "task_002", StudentID: "stu_003", Title: "Confirm recommendation letters", Status: models.TaskPending, CreatedAt: days(2)},
		{ID: "task_003", StudentID: "stu_004", Title: "Send decision timeline", Status: models.TaskDone, CreatedAt: days(6)},
		{ID: "task_004", StudentID: "stu_005", Title: "Re-engagement call", DueAt: &due, Status: models.TaskPending, CreatedAt: days(1)},
	}
	for i := range tasks {
		if err := store.AddTask(ctx, &tasks[i]); err != nil {
			return false, fmt.Errorf("seed task %s: %w", tasks[i].ID, err)
		}
	}

	notes := []models.Note{
		{ID: "note_001", StudentID: "stu_001", Content: "Interested in CS programs on the west coast.", CreatedAt: days(2), CreatedBy: "seed"},
		{ID: "note_002", StudentID: "stu_002", Content: "Struggling with the personal statement.", CreatedAt: days(9), CreatedBy: "seed"},
	}
	for i := range notes {
		if err := store.AddNote(ctx, &notes[i]); err != nil {
			return false, fmt.Errorf("seed note %s: %w", notes[i].ID, err)
		}
	}

	return true, nil
}
