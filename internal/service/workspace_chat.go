package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/intake"
)

// TurnFailedReply is recorded as the assistant message when a turn could
// not be analyzed.
const TurnFailedReply = intake.FallbackReply

var (
	// ErrTurnInProgress is returned when a message is sent while another turn
	// is still outstanding.
	ErrTurnInProgress = errors.New("a chat turn is already in progress")
	ErrEmptyMessage   = errors.New("message is empty")
)

// Turn is the outcome of one SendMessage call. Only confirmed writes appear
// in it; everything that failed to persist is listed in Notices.
type Turn struct {
	UserMessage domain.ChatMessage
	Reply       *domain.ChatMessage
	Tasks       []domain.Task
	Timeline    *domain.Timeline
	Insights    []string
	// Failed is set when analysis fell back to TurnFailedReply.
	Failed bool
	// Skipped counts extracted tasks dropped for missing required fields.
	Skipped int
	Notices []Notice
}

// SendMessage runs one intake turn for the project:
//  1. the user message is stored before anything else;
//  2. the analyzer sees the history including that message;
//  3. on success the reply is stored, new tasks are appended, the timeline
//     is replaced when one came back and insights are replaced when non-empty;
//  4. on failure only the fallback reply is stored.
//
// Each write reaches the store before the cache. Failures after step 1 are
// returned as notices, not errors. Turns never overlap, and a turn is not
// cancelled by ctx once the user message is stored.
func (w *Workspace) SendMessage(ctx context.Context, projectID, content string) (turn *Turn, err error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrTurnInProgress
	}
	defer w.busy.Store(false)

	fields := map[string]any{}
	defer w.observe(ctx, "send-message", projectID, time.Now(), fields, &err)

	p, err := w.Project(projectID)
	if err != nil {
		return nil, err
	}

	userMsg := domain.ChatMessage{
		ID:        w.newID(),
		Role:      domain.RoleUser,
		Content:   content,
		Timestamp: w.now(),
	}
	if err := w.store.Messages.Create(ctx, projectID, &userMsg); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}
	w.apply(projectID, func(p *domain.Project) { p.ChatHistory = append(p.ChatHistory, userMsg) })

	// Once the user message is stored the turn runs to completion even if the
	// caller goes away.
	ctx = context.WithoutCancel(ctx)

	history := append(p.ChatHistory, userMsg)
	res := w.analyzer.Analyze(ctx, content, history, w.now())

	turn = &Turn{UserMessage: userMsg, Failed: res.Failed, Skipped: res.Skipped}
	fields["failed"] = res.Failed

	reply := res.Reply
	if res.Failed {
		reply = TurnFailedReply
	}
	aiMsg := domain.ChatMessage{
		ID:        w.newID(),
		Role:      domain.RoleAI,
		Content:   reply,
		Timestamp: w.now(),
	}
	if err := w.store.Messages.Create(ctx, projectID, &aiMsg); err != nil {
		turn.notice(w, Notice{ProjectID: projectID, Op: "saving reply", Err: err})
	} else {
		w.apply(projectID, func(p *domain.Project) { p.ChatHistory = append(p.ChatHistory, aiMsg) })
		turn.Reply = &aiMsg
	}

	if res.Failed {
		return turn, nil
	}

	if len(res.Tasks) > 0 {
		if err := w.store.Tasks.UpsertMany(ctx, projectID, res.Tasks); err != nil {
			turn.notice(w, Notice{ProjectID: projectID, Op: "saving tasks", Err: err})
		} else {
			w.apply(projectID, func(p *domain.Project) {
				for _, t := range res.Tasks {
					p.Tasks = append(p.Tasks, t.Clone())
				}
			})
			turn.Tasks = res.Tasks
		}
	}
	fields["tasks_added"] = len(turn.Tasks)

	if res.Timeline != nil {
		if err := w.store.Timelines.Upsert(ctx, projectID, res.Timeline); err != nil {
			turn.notice(w, Notice{ProjectID: projectID, Op: "saving timeline", Err: err})
		} else {
			tl := *res.Timeline
			w.apply(projectID, func(p *domain.Project) { p.Timeline = &tl })
			turn.Timeline = res.Timeline
		}
	}

	if len(res.Insights) > 0 {
		if err := w.store.Projects.ReplaceInsights(ctx, projectID, res.Insights); err != nil {
			turn.notice(w, Notice{ProjectID: projectID, Op: "saving insights", Err: err})
		} else {
			insights := append([]string(nil), res.Insights...)
			w.apply(projectID, func(p *domain.Project) { p.Insights = insights })
			turn.Insights = res.Insights
		}
	}

	fields["notices"] = len(turn.Notices)
	return turn, nil
}

func (t *Turn) notice(w *Workspace, n Notice) {
	w.logger.Warn("workspace notice", "project_id", n.ProjectID, "op", n.Op, "error", n.Err)
	t.Notices = append(t.Notices, n)
}
