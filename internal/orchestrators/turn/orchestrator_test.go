package turn_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	llmmock "github.com/KirkDiggler/rpg-gm/internal/clients/llm/mock"
	"github.com/KirkDiggler/rpg-gm/internal/engine/dice"
	"github.com/KirkDiggler/rpg-gm/internal/engine/fallback"
	"github.com/KirkDiggler/rpg-gm/internal/engine/prompt"
	"github.com/KirkDiggler/rpg-gm/internal/engine/sanitize"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
	"github.com/KirkDiggler/rpg-gm/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-gm/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-gm/internal/repositories/session"
	"github.com/KirkDiggler/rpg-gm/internal/testutils"
)

// recordingBus captures published events
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingBus) Unsubscribe(_ string) error { return nil }
func (b *recordingBus) Clear(_ string)             {}
func (b *recordingBus) ClearAll()                  {}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type())
	}
	return out
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mockLLM *llmmock.MockClient
	repo    *session.InMemoryRepository
	roller  *testutils.ScriptedRoller
	bus     *recordingBus
	catalog *i18n.Catalog
	prompts *prompt.Builder
	ctx     context.Context
	sess    *entities.Session
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockLLM = llmmock.NewMockClient(s.ctrl)
	s.repo = session.NewInMemory()
	s.bus = &recordingBus{}
	s.catalog = i18n.MustLoad()
	s.ctx = context.Background()

	rules, err := prompt.DefaultRulebook()
	s.Require().NoError(err)
	s.prompts, err = prompt.NewBuilder(&prompt.Config{Rulebook: rules, Catalog: s.catalog})
	s.Require().NoError(err)

	s.sess = testutils.CreateTestSession()
	_, err = s.repo.Create(s.ctx, &session.CreateInput{Session: s.sess})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(maxSteps int, rolls ...int) turn.Service {
	s.roller = testutils.NewScriptedRoller(rolls...)
	orch, err := turn.NewOrchestrator(&turn.Config{
		SessionRepo:     s.repo,
		LLM:             s.mockLLM,
		Dice:            dice.NewEngine(s.roller),
		Prompts:         s.prompts,
		Sanitizer:       sanitize.New(nil),
		Catalog:         s.catalog,
		IDGenerator:     idgen.NewSequential("roll"),
		EventBus:        s.bus,
		MaxStepsPerCall: maxSteps,
	})
	s.Require().NoError(err)
	return orch
}

// expectReplies scripts the model's answers in call order
func (s *OrchestratorTestSuite) expectReplies(replies ...string) {
	calls := make([]any, 0, len(replies))
	for _, reply := range replies {
		calls = append(calls, s.mockLLM.EXPECT().
			Complete(gomock.Any(), gomock.Any()).
			Return(&llm.CompleteOutput{Text: reply, Model: testutils.TestModel}, nil))
	}
	gomock.InOrder(calls...)
}

func (s *OrchestratorTestSuite) stored() *entities.Session {
	out, err := s.repo.Get(s.ctx, &session.GetInput{ID: s.sess.ID})
	s.Require().NoError(err)
	return out.Session
}

func (s *OrchestratorTestSuite) TestPlainNarrationWithoutCoordinates() {
	orch := s.newOrchestrator(0)
	s.expectReplies(
		"You enter a quiet tavern. The fire crackles.",
		"I am not sure where we are.",
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I look around"})
	s.Require().NoError(err)

	s.Equal(turn.StatusComplete, out.Status)
	s.Equal(1, out.Steps)
	s.Equal([]turn.Correction{turn.CorrectionCoordinates}, out.Corrections)
	s.Empty(out.Rolls)

	stored := s.stored()
	s.Require().Len(stored.History, 3)
	s.Equal(entities.UserMessage("I look around"), stored.History[1])
	s.Equal(entities.AssistantMessage("You enter a quiet tavern. The fire crackles."), stored.History[2])
	s.Equal(entities.Position{}, stored.Position)
	s.Empty(stored.Map)
	s.Equal(10, stored.Character.HP)
}

func (s *OrchestratorTestSuite) TestRollEndsTheNarration() {
	orch := s.newOrchestrator(0, 15)
	s.expectReplies(
		"You swing your sword. [[ROLL: 1d20+2]] Surely you hit!",
		"[[coordinates[x: 0, y: 0]]]",
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I attack the goblin"})
	s.Require().NoError(err)

	s.Equal(turn.StatusContinue, out.Status)
	s.Equal("You swing your sword. [[ROLL: 1d20+2]]", out.Message)
	s.Equal("You swing your sword.", out.Narrative)
	s.Require().Len(out.Rolls, 1)
	s.Equal(17, out.Rolls[0].Total)
	s.Equal([]int{15}, out.Rolls[0].Rolls)
	s.True(strings.HasPrefix(out.Rolls[0].ID, "roll_"))

	stored := s.stored()
	s.Require().Len(stored.History, 4)
	s.Equal(entities.AssistantMessage("You swing your sword."), stored.History[2])
	s.Equal(entities.RoleSystem, stored.History[3].Role)
	s.Contains(stored.History[3].Content, "Result: 17 (Dice: 15)")
	for _, msg := range stored.History {
		s.NotContains(msg.Content, "Surely")
	}
}

func (s *OrchestratorTestSuite) TestLabeledRollNamesTheSummary() {
	orch := s.newOrchestrator(0, 15)
	s.expectReplies("You scan the dark hall. [[ROLL: Perception=1d20+2]] [[coordinates[x: 0, y: 0]]]")

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I look around"})
	s.Require().NoError(err)

	s.Require().Len(out.Rolls, 1)
	s.Equal("Perception", out.Rolls[0].Label)
	s.Equal("1d20+2", out.Rolls[0].Expression)
	s.Equal(17, out.Rolls[0].Total)

	stored := s.stored()
	last := stored.History[len(stored.History)-1]
	s.Equal(entities.RoleSystem, last.Role)
	s.Equal("Perception rolled 1d20+2. Result: 17 (Dice: 15)", last.Content)
}

func (s *OrchestratorTestSuite) TestCoordinateCorrectionMovesTheCharacter() {
	orch := s.newOrchestrator(0)
	s.expectReplies(
		"You follow the river north until the forest thins.",
		"[[coordinates[x: 3, y: -2]]]",
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I follow the river"})
	s.Require().NoError(err)
	s.Equal(turn.StatusComplete, out.Status)

	stored := s.stored()
	s.Equal(entities.Position{X: 3, Y: -2}, stored.Position)
	s.Require().Len(stored.Map, 1)
	s.Equal("(3, -2)", stored.Map[0].Name)
	s.Equal(entities.NodeCategoryLocation, stored.Map[0].Category)
	s.Equal(entities.NodeStatusVisited, stored.Map[0].Status)
	s.Equal("You follow the river north until the forest thins.", stored.Map[0].Description)
	s.Contains(s.bus.types(), turn.EventPositionChanged)
}

func (s *OrchestratorTestSuite) TestInlineCoordinatesSkipCorrection() {
	orch := s.newOrchestrator(0)
	s.expectReplies("The road bends east. [[coordinates[x: 1, y: 0]]]")

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I walk on"})
	s.Require().NoError(err)

	s.Empty(out.Corrections)
	s.Equal("The road bends east.", out.Narrative)
	s.Equal(entities.Position{X: 1, Y: 0}, s.stored().Position)
}

func (s *OrchestratorTestSuite) TestMissingRollInCombatIsCorrected() {
	orch := s.newOrchestrator(0, 12)

	var correction []entities.Message
	gomock.InOrder(
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(&llm.CompleteOutput{Text: "The orc snarls at you. What do you do?"}, nil),
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
				correction = input.Messages
				return &llm.CompleteOutput{Text: "You lunge at the orc. [[ROLL: 1d20]] [[coordinates[x: 0, y: 1]]]"}, nil
			}),
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I attack the orc with my sword"})
	s.Require().NoError(err)

	s.Equal([]turn.Correction{turn.CorrectionProtocol}, out.Corrections)
	s.Equal(turn.StatusContinue, out.Status)
	s.Require().Len(out.Rolls, 1)
	s.Equal(12, out.Rolls[0].Total)
	s.Equal(entities.Position{X: 0, Y: 1}, s.stored().Position)

	s.Require().GreaterOrEqual(len(correction), 2)
	last := correction[len(correction)-1]
	s.Equal(entities.RoleSystem, last.Role)
	s.Equal(s.catalog.Sprintf("en", i18n.KeyCorrectMissingRoll), last.Content)
	s.Equal(entities.AssistantMessage("The orc snarls at you. What do you do?"), correction[len(correction)-2])
}

func (s *OrchestratorTestSuite) TestQuestionAfterRollIsCorrected() {
	orch := s.newOrchestrator(0, 4)
	s.expectReplies(
		"Roll for it! [[ROLL: 1d6]] What do you do next?",
		"The trap clicks. [[ROLL: 1d6]]",
		"[[coordinates[x: 0, y: 0]]]",
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I open the chest"})
	s.Require().NoError(err)

	s.Equal([]turn.Correction{turn.CorrectionProtocol, turn.CorrectionCoordinates}, out.Corrections)
	s.Equal("The trap clicks. [[ROLL: 1d6]]", out.Message)
	s.Require().Len(out.Rolls, 1)
	s.Equal(4, out.Rolls[0].Total)
}

func (s *OrchestratorTestSuite) TestFailedProtocolCorrectionKeepsOriginal() {
	orch := s.newOrchestrator(0, 3)
	gomock.InOrder(
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(&llm.CompleteOutput{Text: "Roll! [[ROLL: 1d6]] What do you do?"}, nil),
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(nil, errors.Unavailable("model went away")),
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(&llm.CompleteOutput{Text: "[[coordinates[x: 0, y: 0]]]"}, nil),
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I open the chest"})
	s.Require().NoError(err)

	s.Equal("Roll! [[ROLL: 1d6]]", out.Message)
	s.Equal(turn.StatusContinue, out.Status)
}

func (s *OrchestratorTestSuite) TestUpstreamFailureLeavesSessionUntouched() {
	orch := s.newOrchestrator(0)
	s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("connection refused"))

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I wait"})
	s.Require().Error(err)
	s.Nil(out)

	s.True(errors.IsUnavailable(err))
	s.Equal(s.catalog.Sprintf("en", i18n.KeyModelUnavailable), errors.GetMessage(err))
	s.Equal(s.sess.ID, errors.GetMeta(err)["session_id"])

	s.Equal(s.sess.History, s.stored().History)
	s.Empty(s.bus.types())
}

func (s *OrchestratorTestSuite) TestCanceledContextIsNotUnavailable() {
	orch := s.newOrchestrator(0)
	ctx, cancel := context.WithCancel(s.ctx)
	s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *llm.CompleteInput) (*llm.CompleteOutput, error) {
			cancel()
			return nil, errors.Wrap(context.Canceled, "request canceled")
		})

	_, err := orch.Continue(ctx, &turn.ContinueInput{SessionID: s.sess.ID})
	s.Require().Error(err)
	s.True(errors.IsCanceled(err))
}

func (s *OrchestratorTestSuite) TestGroupRollSortedByTotal() {
	orch := s.newOrchestrator(0, 5, 10, 7)
	gomock.InOrder(
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(&llm.CompleteOutput{Text: "Goblins burst from the bushes! [[ROLL_GROUP: Arin=1d20+1, Goblin=1d20+3, Wolf=1d20-1]]"}, nil),
		s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
			Return(nil, errors.Unavailable("timeout")),
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I draw my sword"})
	s.Require().NoError(err)

	s.Equal(turn.StatusContinue, out.Status)
	s.Require().Len(out.Rolls, 3)
	s.Equal("Goblin", out.Rolls[0].Label)
	s.Equal(13, out.Rolls[0].Total)
	s.Equal("Arin", out.Rolls[1].Label)
	s.Equal(6, out.Rolls[1].Total)
	s.Equal("Wolf", out.Rolls[2].Label)
	s.Equal(6, out.Rolls[2].Total)

	stored := s.stored()
	summary := stored.History[len(stored.History)-1]
	s.Equal(entities.RoleSystem, summary.Role)
	lines := strings.Split(summary.Content, "\n")
	s.Require().Len(lines, 4)
	s.Equal("Group roll, highest first:", lines[0])
	s.True(strings.HasPrefix(lines[1], "1. Goblin: 13"))
	s.Equal(entities.Position{}, stored.Position)
}

func (s *OrchestratorTestSuite) TestGroupTiesKeepListedOrder() {
	orch := s.newOrchestrator(0, 8, 8)
	s.expectReplies(
		"[[ROLL_GROUP: Arin=1d20, Goblin=1d20]]",
		"[[coordinates[x: 0, y: 0]]]",
	)

	out, err := orch.Continue(s.ctx, &turn.ContinueInput{SessionID: s.sess.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Rolls, 2)
	s.Equal("Arin", out.Rolls[0].Label)
	s.Equal("Goblin", out.Rolls[1].Label)
}

func (s *OrchestratorTestSuite) TestUnrollableDirectiveCompletesTurn() {
	orch := s.newOrchestrator(0)
	s.expectReplies("You hesitate. [[ROLL: a handful of dice]] [[coordinates[x: 0, y: 0]]]")

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I think"})
	s.Require().NoError(err)

	s.Equal(turn.StatusComplete, out.Status)
	s.Empty(out.Rolls)
	s.Equal(entities.RoleAssistant, s.stored().History[2].Role)
	s.Len(s.stored().History, 3)
}

func (s *OrchestratorTestSuite) TestStatsDirectiveApplied() {
	orch := s.newOrchestrator(0)
	s.expectReplies(`The arrow grazes you. [[UPDATE_STATS: {"hp": -3, "ac": 14}]] [[coordinates[x: 0, y: 0]]]`)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I duck"})
	s.Require().NoError(err)

	s.Equal("The arrow grazes you.", out.Narrative)
	stored := s.stored()
	s.Equal(s.sess.Character.HP-3, stored.Character.HP)
	s.Equal(14, stored.Character.AC)
	s.Contains(s.bus.types(), turn.EventStatsChanged)
}

func (s *OrchestratorTestSuite) TestStatsClampAtZero() {
	orch := s.newOrchestrator(0)
	s.expectReplies(`The dragon breathes fire. [[UPDATE_STATS: {"hp": -50}]] [[coordinates[x: 0, y: 0]]]`)

	_, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I stand my ground"})
	s.Require().NoError(err)
	s.Equal(0, s.stored().Character.HP)
}

func (s *OrchestratorTestSuite) TestFallbackReadsProse() {
	orch := s.newOrchestrator(0)
	s.expectReplies(fmt.Sprintf("The blade bites deep. HP: 4/%d [[coordinates[x: 0, y: 0]]]", s.sess.Character.MaxHP))

	_, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I parry"})
	s.Require().NoError(err)
	s.Equal(4, s.stored().Character.HP)
}

func (s *OrchestratorTestSuite) TestDisabledFallbackIgnoresProse() {
	orch, err := turn.NewOrchestrator(&turn.Config{
		SessionRepo: s.repo,
		LLM:         s.mockLLM,
		Dice:        dice.NewEngine(testutils.NewScriptedRoller()),
		Prompts:     s.prompts,
		Sanitizer:   sanitize.New(nil),
		Catalog:     s.catalog,
		IDGenerator: idgen.NewSequential("roll"),
		Fallback:    fallback.Disabled{},
	})
	s.Require().NoError(err)
	s.expectReplies(fmt.Sprintf("HP: 4/%d [[coordinates[x: 0, y: 0]]]", s.sess.Character.MaxHP))

	_, err = orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I parry"})
	s.Require().NoError(err)
	s.Equal(s.sess.Character.HP, s.stored().Character.HP)
}

func (s *OrchestratorTestSuite) TestCompanionsJoinAndLeave() {
	orch := s.newOrchestrator(0)
	s.expectReplies(`Lyra nods and joins you. [[ADD_COMPANION: {"name": "Lyra", "class": "Ranger", "description": "A quiet archer"}]] [[coordinates[x: 0, y: 0]]]`)

	_, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I ask Lyra to come"})
	s.Require().NoError(err)
	stored := s.stored()
	s.Require().Len(stored.Companions, 1)
	s.Equal("Ranger", stored.Companions[0].Class)
	s.Contains(s.bus.types(), turn.EventCompanionJoined)

	s.expectReplies(`Lyra waves goodbye. [[REMOVE_COMPANION: "lyra"]] [[coordinates[x: 0, y: 0]]]`)
	_, err = orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "Farewell"})
	s.Require().NoError(err)
	s.Empty(s.stored().Companions)
	s.Contains(s.bus.types(), turn.EventCompanionLeft)
}

func (s *OrchestratorTestSuite) TestRollEventCarriesTotals() {
	orch := s.newOrchestrator(0, 6)
	s.expectReplies("[[ROLL: 1d6+1]] [[coordinates[x: 0, y: 0]]]")

	_, err := orch.Continue(s.ctx, &turn.ContinueInput{SessionID: s.sess.ID})
	s.Require().NoError(err)

	var roll events.Event
	for _, e := range s.bus.events {
		if e.Type() == turn.EventRollPerformed {
			roll = e
		}
	}
	s.Require().NotNil(roll)
	s.Equal(testutils.TestCharacterName, roll.Source().GetID())
	total, ok := roll.Context().Get(turn.KeyTotal)
	s.True(ok)
	s.Equal(7, total)
}

func (s *OrchestratorTestSuite) TestChainedStepsUntilComplete() {
	orch := s.newOrchestrator(3, 18)
	s.expectReplies(
		"You strike! [[ROLL: 1d20]] [[coordinates[x: 0, y: 0]]]",
		"The goblin falls. [[coordinates[x: 0, y: 0]]]",
	)

	out, err := orch.Act(s.ctx, &turn.ActInput{SessionID: s.sess.ID, Action: "I attack the goblin"})
	s.Require().NoError(err)

	s.Equal(2, out.Steps)
	s.Equal(turn.StatusComplete, out.Status)
	s.Equal("The goblin falls.", out.Narrative)
	s.Len(out.Rolls, 1)

	history := s.stored().History
	s.Require().Len(history, 5)
	s.Equal(entities.AssistantMessage("The goblin falls."), history[4])
	s.Equal(history, out.Session.History)
}

func (s *OrchestratorTestSuite) TestContinueSendsNoPlayerMessage() {
	orch := s.newOrchestrator(0)
	s.mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *llm.CompleteInput) (*llm.CompleteOutput, error) {
			s.Equal(testutils.TestModel, input.Model)
			for _, msg := range input.Messages {
				s.NotEqual(entities.RoleUser, msg.Role)
			}
			return &llm.CompleteOutput{Text: "Dawn breaks over the village. [[coordinates[x: 0, y: 0]]]"}, nil
		})

	out, err := orch.Continue(s.ctx, &turn.ContinueInput{SessionID: s.sess.ID})
	s.Require().NoError(err)
	s.Equal("Dawn breaks over the village.", out.Narrative)
	s.Len(s.stored().History, 2)
}

func (s *OrchestratorTestSuite) TestActValidation() {
	orch := s.newOrchestrator(0)

	testCases := []struct {
		name  string
		input *turn.ActInput
	}{
		{name: "nil input", input: nil},
		{name: "missing session", input: &turn.ActInput{Action: "hello"}},
		{name: "blank action", input: &turn.ActInput{SessionID: s.sess.ID, Action: "   "}},
		{name: "oversized action", input: &turn.ActInput{SessionID: s.sess.ID, Action: strings.Repeat("a", turn.MaxActionLength+1)}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := orch.Act(s.ctx, tc.input)
			s.Require().Error(err)
			s.Nil(out)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *OrchestratorTestSuite) TestUnknownSession() {
	orch := s.newOrchestrator(0)

	_, err := orch.Act(s.ctx, &turn.ActInput{SessionID: "missing", Action: "hello"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	_, err := turn.NewOrchestrator(nil)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = turn.NewOrchestrator(&turn.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "SessionRepo")
	s.Contains(err.Error(), "IDGenerator")
}
