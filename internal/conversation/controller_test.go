package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

type fakeMatcher struct {
	recs  []models.RankedFramework
	err   error
	calls int
}

func (f *fakeMatcher) Match(context.Context, string, types.ServiceConfig) ([]models.RankedFramework, error) {
	f.calls++
	return f.recs, f.err
}

type fakeClarifier struct {
	results []*models.ClarificationResult
	err     error
	rounds  []int
	block   chan struct{}
}

func (f *fakeClarifier) Ask(_ context.Context, _ *models.FrameworkDetail, _ string, _ models.ClarificationData, _ types.ServiceConfig, round, _ int) (*models.ClarificationResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.rounds = append(f.rounds, round)
	if f.err != nil {
		return nil, f.err
	}
	i := len(f.rounds) - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], nil
}

type fakeComposer struct {
	prompt string
	err    error
	data   []models.ClarificationData
}

func (f *fakeComposer) Compose(_ context.Context, _ *models.FrameworkDetail, data models.ClarificationData, _ types.ServiceConfig) (string, error) {
	f.data = append(f.data, data)
	if f.err != nil {
		return "", f.err
	}
	return f.prompt, nil
}

type fakeCatalog struct {
	detail  *models.FrameworkDetail
	loadErr error
}

func (f *fakeCatalog) FindIDByName(name, nameEn string) (int, bool) {
	if name == "missing" {
		return 0, false
	}
	return f.detail.ID, true
}

func (f *fakeCatalog) LoadDetail(int) (*models.FrameworkDetail, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.detail, nil
}

func okConfig() (types.ServiceConfig, error) {
	return types.ServiceConfig{Service: types.ServiceDeepSeek, APIKey: "k", Model: "m"}, nil
}

func incompleteRound() *models.ClarificationResult {
	return &models.ClarificationResult{
		Questions: []models.ClarificationQuestion{
			{Dimension: "goal clarity", Question: "What is the goal?"},
		},
	}
}

func testDetail() *models.FrameworkDetail {
	return &models.FrameworkDetail{ID: 7, Name: "SCQA", NameEn: "Situation-Complication-Question-Answer"}
}

func newTestController(m *fakeMatcher, cl *fakeClarifier, co *fakeComposer, opts ...Option) *Controller {
	return NewController(m, cl, co, &fakeCatalog{detail: testDetail()}, okConfig, opts...)
}

func TestFullConversationFlow(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{
		{Name: "SCQA", NameEn: "Situation-Complication-Question-Answer"},
		{Name: "RTF", NameEn: "Role-Task-Format"},
	}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{
		incompleteRound(),
		{IsComplete: true},
	}}
	composer := &fakeComposer{prompt: "the optimized prompt"}
	c := newTestController(matcher, clarifier, composer, WithMaxRounds(3))
	ctx := context.Background()

	// First utterance triggers matching.
	reply, err := c.HandleInput(ctx, "write a board update")
	if err != nil {
		t.Fatalf("matching turn: %v", err)
	}
	if reply.Stage != models.StageMatching || len(reply.Recommendations) != 2 {
		t.Fatalf("reply = %+v", reply)
	}

	// Picking by number moves to clarifying, round 1.
	reply, err = c.HandleInput(ctx, "1")
	if err != nil {
		t.Fatalf("selection turn: %v", err)
	}
	if reply.Stage != models.StageClarifying || len(reply.Questions) != 1 {
		t.Fatalf("reply = %+v", reply)
	}
	if s := c.Session(); s.Round != 1 || s.Selected == nil {
		t.Fatalf("session = %+v", s)
	}

	// The answer increments the round; the engine reports complete and the
	// conversation generates.
	reply, err = c.HandleInput(ctx, "the goal is budget approval")
	if err != nil {
		t.Fatalf("clarifying turn: %v", err)
	}
	if reply.Stage != models.StageComplete || reply.GeneratedPrompt != "the optimized prompt" {
		t.Fatalf("reply = %+v", reply)
	}

	s := c.Session()
	if s.Round != 2 {
		t.Errorf("Round = %d, want 2", s.Round)
	}
	if !strings.Contains(s.Data.AdditionalInfo, "budget approval") {
		t.Errorf("AdditionalInfo = %q", s.Data.AdditionalInfo)
	}
	if len(clarifier.rounds) != 2 || clarifier.rounds[0] != 1 || clarifier.rounds[1] != 2 {
		t.Errorf("clarifier asked rounds %v, want [1 2]", clarifier.rounds)
	}
}

func TestRoundCeilingForcesGeneration(t *testing.T) {
	// The engine never reports completion; the ceiling generates anyway.
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{incompleteRound()}}
	composer := &fakeComposer{prompt: "forced"}
	c := newTestController(matcher, clarifier, composer, WithMaxRounds(2))
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	mustReply(t, c, ctx, "1")
	reply, err := c.HandleInput(ctx, "an answer")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Stage != models.StageComplete || reply.GeneratedPrompt != "forced" {
		t.Fatalf("reply = %+v, want forced generation at the ceiling", reply)
	}
	// The last answer generates directly; no further questions are asked.
	if len(clarifier.rounds) != 1 || clarifier.rounds[0] != 1 {
		t.Errorf("clarifier asked rounds %v, want [1]", clarifier.rounds)
	}
	if s := c.Session(); s.Round != s.MaxRounds {
		t.Errorf("Round = %d, want capped at MaxRounds (%d)", s.Round, s.MaxRounds)
	}
}

func TestRoundNeverExceedsCeiling(t *testing.T) {
	// A generation failure at the ceiling drops the session back to
	// Clarifying with Round == MaxRounds. Re-answering must retry the
	// generation without pushing the round counter past the ceiling.
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{incompleteRound()}}
	composer := &fakeComposer{err: errors.New("boom")}
	c := newTestController(matcher, clarifier, composer, WithMaxRounds(2))
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	mustReply(t, c, ctx, "1")
	if _, err := c.HandleInput(ctx, "first answer"); err == nil {
		t.Fatal("expected the generation error")
	}
	if s := c.Session(); s.Stage != models.StageClarifying || s.Round != 2 {
		t.Fatalf("session = stage %q round %d, want clarifying at the ceiling", s.Stage, s.Round)
	}

	composer.err = nil
	composer.prompt = "recovered"
	reply := mustReply(t, c, ctx, "second answer")
	if reply.Stage != models.StageComplete || reply.GeneratedPrompt != "recovered" {
		t.Fatalf("reply = %+v, want recovered generation", reply)
	}
	s := c.Session()
	if s.Round > s.MaxRounds {
		t.Errorf("Round = %d, exceeds MaxRounds (%d)", s.Round, s.MaxRounds)
	}
	if len(clarifier.rounds) != 1 {
		t.Errorf("clarifier asked rounds %v, want a single round-1 ask", clarifier.rounds)
	}
}

func TestAskFailureKeepsAnswerAndRound(t *testing.T) {
	// A transient ask failure below the ceiling surfaces the error but
	// keeps the answer; the next input continues toward the ceiling.
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{incompleteRound()}}
	composer := &fakeComposer{prompt: "done"}
	c := newTestController(matcher, clarifier, composer, WithMaxRounds(3))
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	mustReply(t, c, ctx, "1")

	clarifier.err = errors.New("flaky backend")
	if _, err := c.HandleInput(ctx, "first answer"); err == nil {
		t.Fatal("expected the ask error")
	}
	s := c.Session()
	if s.Stage != models.StageClarifying || s.Round != 2 {
		t.Fatalf("session = stage %q round %d, want clarifying round 2", s.Stage, s.Round)
	}
	if !strings.Contains(s.Data.AdditionalInfo, "first answer") {
		t.Errorf("AdditionalInfo = %q, answer was dropped", s.Data.AdditionalInfo)
	}

	clarifier.err = nil
	reply := mustReply(t, c, ctx, "second answer")
	if reply.Stage != models.StageComplete {
		t.Fatalf("Stage = %q, want complete at the ceiling", reply.Stage)
	}
	if s := c.Session(); s.Round > s.MaxRounds {
		t.Errorf("Round = %d, exceeds MaxRounds (%d)", s.Round, s.MaxRounds)
	}
}

func TestMatchFailureRevertsToInitial(t *testing.T) {
	matcher := &fakeMatcher{err: types.NewError(types.ErrNetwork, "unreachable")}
	c := newTestController(matcher, &fakeClarifier{}, &fakeComposer{})

	_, err := c.HandleInput(context.Background(), "input")
	if err == nil {
		t.Fatal("expected an error")
	}
	if s := c.Session(); s.Stage != models.StageInitial {
		t.Errorf("Stage = %q, want initial after match failure", s.Stage)
	}
}

func TestGenerationFailureRevertsToClarifying(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{{IsComplete: true}}}
	composer := &fakeComposer{err: errors.New("boom")}
	c := newTestController(matcher, clarifier, composer)
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	if _, err := c.HandleInput(ctx, "1"); err == nil {
		t.Fatal("expected the generation error")
	}
	if s := c.Session(); s.Stage != models.StageClarifying {
		t.Errorf("Stage = %q, want clarifying after generation failure", s.Stage)
	}
}

func TestAdjustmentRegenerates(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{{IsComplete: true}}}
	composer := &fakeComposer{prompt: "v1"}
	c := newTestController(matcher, clarifier, composer)
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	reply := mustReply(t, c, ctx, "1")
	if reply.Stage != models.StageComplete {
		t.Fatalf("Stage = %q, want complete", reply.Stage)
	}

	composer.prompt = "v2"
	reply = mustReply(t, c, ctx, "make it shorter")
	if reply.GeneratedPrompt != "v2" {
		t.Errorf("GeneratedPrompt = %q, want the regenerated prompt", reply.GeneratedPrompt)
	}

	last := composer.data[len(composer.data)-1]
	if !strings.Contains(last.AdditionalInfo, "Adjustment: make it shorter") {
		t.Errorf("AdditionalInfo = %q, adjustment not recorded", last.AdditionalInfo)
	}
	if s := c.Session(); s.Adjustments != 1 {
		t.Errorf("Adjustments = %d, want 1", s.Adjustments)
	}
}

func TestAdjustmentFailureKeepsPreviousPrompt(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{{IsComplete: true}}}
	composer := &fakeComposer{prompt: "v1"}
	c := newTestController(matcher, clarifier, composer)
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	mustReply(t, c, ctx, "1")

	composer.err = errors.New("boom")
	if _, err := c.HandleInput(ctx, "make it shorter"); err == nil {
		t.Fatal("expected the regeneration error")
	}
	s := c.Session()
	if s.Stage != models.StageComplete || s.GeneratedPrompt != "v1" {
		t.Errorf("session = stage %q prompt %q, want previous prompt kept", s.Stage, s.GeneratedPrompt)
	}
}

func TestSelectUnknownFramework(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	c := newTestController(matcher, &fakeClarifier{results: []*models.ClarificationResult{incompleteRound()}}, &fakeComposer{})
	ctx := context.Background()

	mustReply(t, c, ctx, "input")

	if _, err := c.HandleInput(ctx, "missing"); types.CodeOf(err) != types.ErrNotFound {
		t.Errorf("error code = %v, want ErrNotFound", types.CodeOf(err))
	}
	if _, err := c.HandleInput(ctx, "9"); types.CodeOf(err) != types.ErrNotFound {
		t.Errorf("out-of-range pick: code = %v, want ErrNotFound", types.CodeOf(err))
	}
	if s := c.Session(); s.Stage != models.StageMatching {
		t.Errorf("Stage = %q, selection wait should survive a bad pick", s.Stage)
	}
}

func TestNewConversationDiscardsSession(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{{IsComplete: true}}}
	composer := &fakeComposer{prompt: "v1"}
	c := newTestController(matcher, clarifier, composer)
	ctx := context.Background()

	mustReply(t, c, ctx, "input")
	mustReply(t, c, ctx, "1")
	before := c.Session()

	if err := c.NewConversation(); err != nil {
		t.Fatal(err)
	}
	after := c.Session()
	if after.ID == before.ID {
		t.Error("session id unchanged after new conversation")
	}
	if after.Stage != models.StageInitial || after.GeneratedPrompt != "" || after.Selected != nil || after.Round != 0 {
		t.Errorf("session not discarded wholesale: %+v", after)
	}
}

func TestBusyRejection(t *testing.T) {
	matcher := &fakeMatcher{recs: []models.RankedFramework{{Name: "SCQA"}}}
	block := make(chan struct{})
	clarifier := &fakeClarifier{results: []*models.ClarificationResult{incompleteRound()}, block: block}
	c := newTestController(matcher, clarifier, &fakeComposer{})
	ctx := context.Background()

	mustReply(t, c, ctx, "input")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.HandleInput(ctx, "1")
	}()

	// Wait until the first call is parked inside the clarifier.
	deadline := time.After(time.Second)
	for {
		if _, err := c.HandleInput(ctx, "2"); errors.Is(err, ErrBusy) {
			break
		}
		select {
		case <-deadline:
			close(block)
			wg.Wait()
			t.Fatal("concurrent input was never rejected as busy")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(block)
	wg.Wait()
}

func TestEmptyInputRejected(t *testing.T) {
	c := newTestController(&fakeMatcher{}, &fakeClarifier{}, &fakeComposer{})
	if _, err := c.HandleInput(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func mustReply(t *testing.T, c *Controller, ctx context.Context, text string) *Reply {
	t.Helper()
	reply, err := c.HandleInput(ctx, text)
	if err != nil {
		t.Fatalf("HandleInput(%q): %v", text, err)
	}
	return reply
}
