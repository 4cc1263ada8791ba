// Package play is a terminal quiz client on top of the question service.
package play

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/question"
	"github.com/abhisek/mathquiz/internal/ui/components"
)

// QuestionSource hands out one question per call.
type QuestionSource interface {
	Next(ctx context.Context, topic question.Topic, difficulty question.Difficulty) (question.Question, error)
}

// Options configures a quiz run. Empty Topic or Difficulty are asked for
// with a picker before the first question.
type Options struct {
	Topic      question.Topic
	Difficulty question.Difficulty
	// Typed asks for the answer as text instead of showing the options.
	Typed bool
}

type phase int

const (
	phasePickTopic phase = iota
	phasePickDifficulty
	phaseLoading
	phaseAsking
	phaseFeedback
	phaseFailed
)

// Model is the Bubble Tea model of a quiz run.
type Model struct {
	ctx    context.Context
	source QuestionSource
	opts   Options

	phase   phase
	menu    components.Menu
	current question.Question
	choice  components.MultiChoice
	input   components.TextInput
	correct bool
	err     error

	answered int
	right    int

	width  int
	height int
}

func New(ctx context.Context, source QuestionSource, opts Options) Model {
	m := Model{ctx: ctx, source: source, opts: opts}
	switch {
	case opts.Topic == "":
		m.phase = phasePickTopic
		m.menu = components.NewMenuFromValues("Pick a topic", topicValues())
	case opts.Difficulty == "":
		m.phase = phasePickDifficulty
		m.menu = components.NewMenuFromValues("Pick a difficulty", difficultyValues())
	default:
		m.phase = phaseLoading
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.phase == phaseLoading {
		return m.fetch()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case questionReadyMsg:
		return m.handleQuestion(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePickTopic:
		m.menu, _ = m.menu.Update(msg)
		if !m.menu.Chosen {
			return m, nil
		}
		m.opts.Topic = question.Topic(m.menu.Value())
		if m.opts.Difficulty == "" {
			m.phase = phasePickDifficulty
			m.menu = components.NewMenuFromValues("Pick a difficulty", difficultyValues())
			return m, nil
		}
		m.phase = phaseLoading
		return m, m.fetch()

	case phasePickDifficulty:
		m.menu, _ = m.menu.Update(msg)
		if !m.menu.Chosen {
			return m, nil
		}
		m.opts.Difficulty = question.Difficulty(m.menu.Value())
		m.phase = phaseLoading
		return m, m.fetch()

	case phaseAsking:
		if m.opts.Typed {
			return m.handleTyped(msg)
		}
		var cmd tea.Cmd
		m.choice, cmd = m.choice.Update(msg)
		if m.choice.Submitted {
			m.record(m.choice.IsCorrect())
		}
		return m, cmd

	case phaseFeedback:
		switch msg.String() {
		case "enter", "space", "n":
			m.phase = phaseLoading
			return m, m.fetch()
		case "q":
			return m, tea.Quit
		}

	case phaseFailed:
		switch msg.String() {
		case "r", "enter":
			m.phase = phaseLoading
			m.err = nil
			return m, m.fetch()
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleTyped(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		answer := m.input.Value()
		if answer == "" {
			return m, nil
		}
		ok := problemgen.CheckAnswer(answer, m.current)
		m.input.Submit(ok)
		m.record(ok)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) record(correct bool) {
	m.answered++
	if correct {
		m.right++
	}
	m.correct = correct
	m.phase = phaseFeedback
}

func (m Model) handleQuestion(msg questionReadyMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.phase = phaseFailed
		m.err = msg.Err
		return m, nil
	}
	m.current = msg.Question
	m.phase = phaseAsking
	m.correct = false
	if m.opts.Typed {
		m.input = components.NewTextInput("type your answer", true, 16)
		return m, nil
	}
	m.choice = components.NewMultiChoice(msg.Question.Question, msg.Question.Options, msg.Question.CorrectAnswer)
	return m, nil
}

// fetch asks the source for the next question off the UI goroutine.
func (m Model) fetch() tea.Cmd {
	ctx, source := m.ctx, m.source
	topic, difficulty := m.opts.Topic, m.opts.Difficulty
	return func() tea.Msg {
		q, err := source.Next(ctx, topic, difficulty)
		if err != nil {
			return questionReadyMsg{Err: fmt.Errorf("next question: %w", err)}
		}
		return questionReadyMsg{Question: q}
	}
}

// Score returns the number of correct answers and the number answered.
func (m Model) Score() (correct, answered int) {
	return m.right, m.answered
}

func topicValues() []string {
	out := make([]string, 0, len(question.Topics()))
	for _, t := range question.Topics() {
		out = append(out, string(t))
	}
	return out
}

func difficultyValues() []string {
	out := make([]string, 0, len(question.Difficulties()))
	for _, d := range question.Difficulties() {
		out = append(out, string(d))
	}
	return out
}
