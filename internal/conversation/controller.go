// Package conversation owns the single live session and its stage
// transitions. All component calls for a session are serialized: a second
// request while one is in flight is rejected, never raced.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

// DefaultMaxRounds is the clarification round ceiling unless configured
// otherwise.
const DefaultMaxRounds = 2

// ErrBusy is returned when a request arrives while another call for the
// same session is still in flight.
var ErrBusy = errors.New("a request is already in flight for this conversation")

type frameworkMatcher interface {
	Match(ctx context.Context, userInput string, cfg types.ServiceConfig) ([]models.RankedFramework, error)
}

type clarificationEngine interface {
	Ask(ctx context.Context, detail *models.FrameworkDetail, userInput string, data models.ClarificationData, cfg types.ServiceConfig, round, maxRounds int) (*models.ClarificationResult, error)
}

type promptComposer interface {
	Compose(ctx context.Context, detail *models.FrameworkDetail, data models.ClarificationData, cfg types.ServiceConfig) (string, error)
}

type frameworkCatalog interface {
	FindIDByName(name, nameEn string) (int, bool)
	LoadDetail(id int) (*models.FrameworkDetail, error)
}

// ConfigFunc supplies the active backend configuration at call time, so a
// config change between turns takes effect without a restart.
type ConfigFunc func() (types.ServiceConfig, error)

// Reply is what the controller hands back after a successful turn. Exactly
// one of the payload fields is populated, matching the resulting stage.
type Reply struct {
	Stage           models.Stage
	Recommendations []models.RankedFramework
	Questions       []models.ClarificationQuestion
	GeneratedPrompt string
}

// Controller drives the conversation state machine over exactly one live
// session.
type Controller struct {
	matcher   frameworkMatcher
	clarifier clarificationEngine
	composer  promptComposer
	catalog   frameworkCatalog
	configFn  ConfigFunc
	maxRounds int

	mu      sync.Mutex
	session *models.Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxRounds overrides the clarification round ceiling.
func WithMaxRounds(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxRounds = n
		}
	}
}

func NewController(matcher frameworkMatcher, clarifier clarificationEngine, composer promptComposer, cat frameworkCatalog, configFn ConfigFunc, opts ...Option) *Controller {
	c := &Controller{
		matcher:   matcher,
		clarifier: clarifier,
		composer:  composer,
		catalog:   cat,
		configFn:  configFn,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = c.newSession()
	return c
}

func (c *Controller) newSession() *models.Session {
	return &models.Session{
		ID:        uuid.NewString(),
		Stage:     models.StageInitial,
		MaxRounds: c.maxRounds,
	}
}

// Session returns a snapshot of the live session.
func (c *Controller) Session() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.session
}

// NewConversation discards the session wholesale and starts over from
// Initial. Valid from any stage.
func (c *Controller) NewConversation() error {
	if !c.mu.TryLock() {
		return ErrBusy
	}
	defer c.mu.Unlock()
	c.session = c.newSession()
	return nil
}

// HandleInput routes one user utterance according to the current stage:
// the first utterance triggers framework matching, input during selection
// picks a recommendation, input while clarifying answers the open
// questions, and input after completion is an adjustment request that
// repeats generation.
func (c *Controller) HandleInput(ctx context.Context, text string) (*Reply, error) {
	if !c.mu.TryLock() {
		return nil, ErrBusy
	}
	defer c.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, types.NewError(types.ErrConfiguration, "empty input")
	}

	switch c.session.Stage {
	case models.StageInitial:
		return c.startMatching(ctx, text)
	case models.StageMatching:
		return c.selectLocked(ctx, text)
	case models.StageClarifying:
		return c.answerClarification(ctx, text)
	case models.StageComplete:
		return c.adjustPrompt(ctx, text)
	default:
		return nil, fmt.Errorf("no input accepted in stage %q", c.session.Stage)
	}
}

// SelectFramework picks a framework by native or English name once
// recommendations are on the table.
func (c *Controller) SelectFramework(ctx context.Context, name, nameEn string) (*Reply, error) {
	if !c.mu.TryLock() {
		return nil, ErrBusy
	}
	defer c.mu.Unlock()

	if c.session.Stage != models.StageMatching {
		return nil, fmt.Errorf("no framework selection pending in stage %q", c.session.Stage)
	}
	return c.selectByName(ctx, name, nameEn)
}

func (c *Controller) startMatching(ctx context.Context, text string) (*Reply, error) {
	cfg, err := c.configFn()
	if err != nil {
		return nil, err
	}

	c.session.UserInput = text
	c.session.Data.OriginalInput = text
	c.session.Stage = models.StageMatching
	c.appendHistory("user", text)

	recs, err := c.matcher.Match(ctx, text, cfg)
	if err != nil {
		// Match failure returns the session to Initial.
		c.session.Stage = models.StageInitial
		return nil, err
	}
	c.session.Recommended = recs
	return &Reply{Stage: c.session.Stage, Recommendations: recs}, nil
}

// selectLocked interprets selection input: a bare number picks from the
// recommendation list, anything else is treated as a framework name.
func (c *Controller) selectLocked(ctx context.Context, text string) (*Reply, error) {
	if n, err := strconv.Atoi(text); err == nil {
		if n < 1 || n > len(c.session.Recommended) {
			return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("no recommendation number %d", n))
		}
		pick := c.session.Recommended[n-1]
		return c.selectByName(ctx, pick.Name, pick.NameEn)
	}
	return c.selectByName(ctx, text, "")
}

func (c *Controller) selectByName(ctx context.Context, name, nameEn string) (*Reply, error) {
	cfg, err := c.configFn()
	if err != nil {
		return nil, err
	}

	id, ok := c.catalog.FindIDByName(name, nameEn)
	if !ok {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("unknown framework: %s", name))
	}
	detail, err := c.catalog.LoadDetail(id)
	if err != nil {
		return nil, err
	}

	c.session.Selected = detail
	c.session.Stage = models.StageClarifying
	c.session.Round = 1
	c.appendHistory("user", "Selected framework: "+detail.NameEn)

	result, err := c.clarifier.Ask(ctx, detail, c.session.UserInput, c.session.Data, cfg, c.session.Round, c.session.MaxRounds)
	if err != nil {
		return nil, err
	}
	return c.afterClarification(ctx, cfg, result)
}

func (c *Controller) answerClarification(ctx context.Context, answer string) (*Reply, error) {
	cfg, err := c.configFn()
	if err != nil {
		return nil, err
	}

	c.appendHistory("user", answer)
	c.session.Data.AdditionalInfo = appendInfo(c.session.Data.AdditionalInfo, answer)
	if c.session.Round < c.session.MaxRounds {
		c.session.Round++
	}
	// At the ceiling the conversation generates directly, without asking
	// again. Round can never pass MaxRounds.
	if c.session.Round >= c.session.MaxRounds {
		return c.generate(ctx, cfg)
	}

	result, err := c.clarifier.Ask(ctx, c.session.Selected, c.session.UserInput, c.session.Data, cfg, c.session.Round, c.session.MaxRounds)
	if err != nil {
		// The answer and the round survive; the next input continues.
		return nil, err
	}
	return c.afterClarification(ctx, cfg, result)
}

// afterClarification either surfaces the engine's questions or proceeds to
// generation. The round ceiling is authoritative: at or past it the
// conversation generates regardless of the advisory IsComplete flag.
func (c *Controller) afterClarification(ctx context.Context, cfg types.ServiceConfig, result *models.ClarificationResult) (*Reply, error) {
	if result.IsComplete || c.session.Round >= c.session.MaxRounds {
		return c.generate(ctx, cfg)
	}
	for _, q := range result.Questions {
		c.appendHistory("assistant", q.Question)
	}
	return &Reply{Stage: c.session.Stage, Questions: result.Questions}, nil
}

func (c *Controller) generate(ctx context.Context, cfg types.ServiceConfig) (*Reply, error) {
	c.session.Stage = models.StageGenerating

	prompt, err := c.composer.Compose(ctx, c.session.Selected, c.session.Data, cfg)
	if err != nil {
		// Generation failure returns the session to Clarifying.
		c.session.Stage = models.StageClarifying
		return nil, err
	}

	c.session.GeneratedPrompt = prompt
	c.session.Stage = models.StageComplete
	c.appendHistory("assistant", prompt)
	return &Reply{Stage: c.session.Stage, GeneratedPrompt: prompt}, nil
}

// adjustPrompt treats post-completion input as an adjustment request: the
// text joins the collected data and the whole generation step repeats.
func (c *Controller) adjustPrompt(ctx context.Context, text string) (*Reply, error) {
	cfg, err := c.configFn()
	if err != nil {
		return nil, err
	}

	c.appendHistory("user", text)
	c.session.Data.AdditionalInfo = appendInfo(c.session.Data.AdditionalInfo, "Adjustment: "+text)

	c.session.Stage = models.StageGenerating
	prompt, err := c.composer.Compose(ctx, c.session.Selected, c.session.Data, cfg)
	if err != nil {
		// The previous prompt is still valid; stay Complete.
		c.session.Stage = models.StageComplete
		return nil, err
	}
	c.session.GeneratedPrompt = prompt
	c.session.Stage = models.StageComplete
	c.session.Adjustments++
	c.appendHistory("assistant", prompt)
	return &Reply{Stage: c.session.Stage, GeneratedPrompt: prompt}, nil
}

func (c *Controller) appendHistory(role, content string) {
	c.session.History = append(c.session.History, models.Message{Role: role, Content: content})
}

func appendInfo(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "\n" + addition
}
