// Package intake turns one conversational turn into structured board
// updates: tasks, a timeline and insights. The model output is untrusted;
// anything unusable degrades to a fixed reply with no structural change.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/llm"
	"github.com/google/uuid"
)

const (
	// FallbackReply replaces the model reply whenever a turn fails.
	FallbackReply = "Desculpe, ocorreu um erro ao processar sua solicitação. Tente novamente."
	// DefaultReply is used when the model succeeds but sends no reply text.
	DefaultReply = "Processado."
)

// Result is the structured outcome of one turn. When Failed is set only
// Reply is meaningful.
type Result struct {
	Reply    string
	Tasks    []domain.Task
	Timeline *domain.Timeline
	Insights []string
	Failed   bool
	// Skipped counts newTasks elements dropped for missing required fields.
	Skipped int
}

// Service analyzes user input against the conversation so far.
type Service interface {
	// Analyze never returns an error; failures come back as Result.Failed.
	Analyze(ctx context.Context, input string, history []domain.ChatMessage, today time.Time) Result
}

type service struct {
	client llm.LLMClient
	logger *slog.Logger
	newID  func() string
}

// NewService creates an intake Service backed by an LLM client.
func NewService(client llm.LLMClient, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{client: client, logger: logger, newID: uuid.NewString}
}

func (s *service) Analyze(ctx context.Context, input string, history []domain.ChatMessage, today time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("intake panicked", "panic", fmt.Sprint(r))
			res = failed()
		}
	}()

	resp, err := s.client.Generate(ctx, BuildRequest(input, history, today))
	if err != nil {
		s.logger.Warn("intake generation failed", "error", err)
		return failed()
	}

	wire, err := llm.ExtractJSON[wireResponse](resp.Text, nil)
	if err != nil {
		s.logger.Warn("intake response unusable", "error", err)
		return failed()
	}

	return s.mapResponse(wire, today)
}

func failed() Result {
	return Result{Reply: FallbackReply, Failed: true}
}

func (s *service) mapResponse(wire wireResponse, today time.Time) Result {
	res := Result{
		Reply:    DefaultReply,
		Timeline: mapTimeline(wire.Timeline, today),
		Insights: mapInsights(wire.Insights),
	}
	if wire.Reply != nil && strings.TrimSpace(*wire.Reply) != "" {
		res.Reply = *wire.Reply
	}
	if wire.Timeline != nil && res.Timeline == nil {
		s.logger.Warn("intake timeline dropped", "reason", "missing dates or total weeks below 1")
	}

	for i, raw := range wire.NewTasks {
		task, err := s.mapTask(raw)
		if err != nil {
			res.Skipped++
			s.logger.Warn("intake task skipped", "index", i, "error", err)
			continue
		}
		res.Tasks = append(res.Tasks, task)
	}
	return res
}

// mapTask builds a TODO task from one newTasks element. Required fields are
// code, title and category; description defaults to empty and squad to Geral.
// Text is kept exactly as sent.
func (s *service) mapTask(raw json.RawMessage) (domain.Task, error) {
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Task{}, fmt.Errorf("decoding task: %w", err)
	}
	for name, v := range map[string]*string{"code": w.Code, "title": w.Title, "category": w.Category} {
		if v == nil || strings.TrimSpace(*v) == "" {
			return domain.Task{}, fmt.Errorf("task %s is required", name)
		}
	}

	squad, err := domain.ParseSquad(domain.StrFromPtrWithDefault("", w.Squad))
	if err != nil || squad == "" {
		squad = domain.SquadGeneral
	}

	return domain.Task{
		ID:          s.newID(),
		Code:        *w.Code,
		Title:       *w.Title,
		Category:    *w.Category,
		Description: domain.StrFromPtrWithDefault("", w.Description),
		Column:      domain.ColumnTodo,
		Squad:       squad,
	}, nil
}

// mapTimeline returns nil for a timeline that would break the model
// invariants: no dates or fewer than one week. A missing current week is
// derived from the start date.
func mapTimeline(w *wireTimeline, today time.Time) *domain.Timeline {
	if w == nil || w.TotalWeeks == nil {
		return nil
	}
	start := strings.TrimSpace(domain.StrFromPtrWithDefault("", w.StartDate))
	end := strings.TrimSpace(domain.StrFromPtrWithDefault("", w.EndDate))
	if start == "" || end == "" {
		return nil
	}

	tl := &domain.Timeline{
		StartDate:       start,
		EndDate:         end,
		TotalWeeks:      int(math.Round(*w.TotalWeeks)),
		ProgressMessage: domain.StrFromPtrWithDefault("", w.ProgressMessage),
	}
	if w.CurrentWeek != nil {
		tl.CurrentWeek = int(math.Round(*w.CurrentWeek))
	} else {
		tl.CurrentWeek = CurrentWeek(start, today)
	}
	if tl.CurrentWeek < 0 {
		tl.CurrentWeek = 0
	}
	if tl.Validate() != nil {
		return nil
	}
	return tl
}

// CurrentWeek is whole weeks elapsed since start plus one, or 0 when start
// is unparseable or in the future. Only the leading YYYY-MM-DD is read.
func CurrentWeek(start string, today time.Time) int {
	if len(start) < len(dateLayout) {
		return 0
	}
	startDate, err := time.Parse(dateLayout, start[:len(dateLayout)])
	if err != nil {
		return 0
	}
	y, m, d := today.Date()
	todayDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if todayDate.Before(startDate) {
		return 0
	}
	days := int(todayDate.Sub(startDate).Hours() / 24)
	return days/7 + 1
}

func mapInsights(in []*string) []string {
	var out []string
	for _, s := range in {
		if s == nil || strings.TrimSpace(*s) == "" {
			continue
		}
		out = append(out, *s)
	}
	return out
}
