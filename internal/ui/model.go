package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"postgrip/internal/config"
	"postgrip/internal/domain"
	"postgrip/internal/eventbus"
	"postgrip/internal/logic"
	"postgrip/internal/query"
	"postgrip/internal/ui/views"
)

// ReadyMarker is appended to the view when Deps.ReadyMarker is set so e2e
// drivers know the first frame has been drawn
const ReadyMarker = "__READY__"

// statusTimeout is how long a status message stays in the header
const statusTimeout = 3 * time.Second

var tabs = []string{"Posts", "Authors"}

// Deps is everything the model needs from the outside world
type Deps struct {
	Ctx         context.Context
	Config      *config.Config
	Resources   *query.Resources
	Posts       logic.Store[domain.Post]
	Authors     logic.Store[domain.Author]
	Bus         eventbus.EventBus
	Logger      *logrus.Logger
	ReadyMarker bool
}

// Model represents the UI state
type Model struct {
	env    *env
	router *router

	// screens runs parallel to router.stack
	screens []screen
	nextID  int

	width   int
	height  int
	help    help.Model
	spinner spinner.Model

	status      string
	crash       string // set when a screen panicked; the error panel replaces it
	inPagerMode bool
	readyMarker bool

	program *tea.Program
}

// NewModel creates a new UI model starting on the posts list
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	log := logrus.NewEntry(logrus.StandardLogger())
	if deps.Logger != nil {
		log = deps.Logger.WithField("component", "ui")
	}

	posts, authors := deps.Posts, deps.Authors
	if posts == nil {
		posts = logic.NewMemoryStore[domain.Post]()
	}
	if authors == nil {
		authors = logic.NewMemoryStore[domain.Author]()
	}

	e := &env{
		ctx:         ctx,
		resources:   deps.Resources,
		posts:       posts,
		authors:     authors,
		bus:         deps.Bus,
		renderer:    views.NewRenderer(),
		keys:        newKeyMap(),
		log:         log,
		searchDelay: cfg.Search.Delay.Duration,
		showBodies:  cfg.UI.ShowBodies,
		pager:       NewPagerOps(log),
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = e.renderer.Styles().StatusLoading

	m := &Model{
		env:         e,
		router:      newRouter(Route{Kind: RoutePosts}),
		help:        help.New(),
		spinner:     sp,
		readyMarker: deps.ReadyMarker,
	}
	m.screens = []screen{m.build(m.router.current())}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.env.pager.SetProgram(p)
}

// Route returns the route on top of the stack
func (m *Model) Route() Route {
	return m.router.current()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.guard(m.current().init), m.spinner.Tick)
}

func (m *Model) current() screen {
	return m.screens[len(m.screens)-1]
}

// build creates a fresh screen for route
func (m *Model) build(route Route) screen {
	m.nextID++
	switch route.Kind {
	case RoutePost:
		return newPostScreen(m.env, m.nextID, route.ID)
	case RouteAuthors:
		return newAuthorsScreen(m.env, m.nextID)
	case RouteAuthor:
		return newAuthorScreen(m.env, m.nextID, route.ID)
	default:
		return newPostsScreen(m.env, m.nextID)
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		// Don't continue the tick loop while the pager owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case navigateMsg:
		return m, m.push(msg.route)

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case screenMsg:
		// Screens below the top still take their results; closed ones have
		// nowhere to go.
		s := m.screenByID(msg.screenID())
		if s == nil || (s.id() == m.current().id() && m.crash != "") {
			return m, nil
		}
		return m, m.guard(func() tea.Cmd { return s.update(msg) })
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := m.env.keys

	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if m.crash != "" {
		switch {
		case key.Matches(msg, keys.Quit):
			return tea.Quit
		case key.Matches(msg, keys.Refetch):
			return m.reset()
		case key.Matches(msg, keys.Back):
			m.crash = ""
			if !m.router.pop() {
				return m.reset()
			}
			m.screens = m.screens[:len(m.screens)-1]
			return m.navigated()
		}
		return nil
	}

	s := m.current()
	if s.capturing() {
		return m.guard(func() tea.Cmd { return s.update(msg) })
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, keys.Posts):
		return m.switchTab(Route{Kind: RoutePosts})
	case key.Matches(msg, keys.Authors):
		return m.switchTab(Route{Kind: RouteAuthors})
	case key.Matches(msg, keys.Back):
		return m.pop()
	}
	return m.guard(func() tea.Cmd { return s.update(msg) })
}

func (m *Model) push(route Route) tea.Cmd {
	m.router.push(route)
	s := m.build(route)
	m.screens = append(m.screens, s)
	return tea.Batch(m.navigated(), m.guard(s.init))
}

func (m *Model) screenByID(id int) screen {
	for _, s := range m.screens {
		if s.id() == id {
			return s
		}
	}
	return nil
}

func (m *Model) pop() tea.Cmd {
	if !m.router.pop() {
		return nil
	}
	m.screens = m.screens[:len(m.screens)-1]
	return m.navigated()
}

func (m *Model) switchTab(root Route) tea.Cmd {
	if m.router.depth() == 1 && m.router.current() == root {
		return nil
	}
	m.router.reset(root)
	s := m.build(root)
	m.screens = []screen{s}
	return tea.Batch(m.navigated(), m.guard(s.init))
}

// reset rebuilds the current screen after a crash
func (m *Model) reset() tea.Cmd {
	m.crash = ""
	s := m.build(m.router.current())
	m.screens[len(m.screens)-1] = s
	m.env.log.WithField("route", s.route().String()).Info("screen reset")
	return m.guard(s.init)
}

func (m *Model) navigated() tea.Cmd {
	route := m.router.current()
	m.env.publish(eventbus.NavigatedEvent{Route: route.String(), Depth: m.router.depth()})
	m.env.log.WithField("route", route.String()).Debug("navigated")
	return nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.QueryFailedEvent:
		m.status = fmt.Sprintf("Request failed: %s", e.Key)
		return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
	}
	return nil
}

// guard runs f and turns a panic into the error panel
func (m *Model) guard(f func() tea.Cmd) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.recovered(r)
			cmd = nil
		}
	}()
	return f()
}

func (m *Model) recovered(r any) {
	message := fmt.Sprint(r)
	if err, ok := r.(error); ok {
		message = err.Error()
	}
	m.crash = message
	m.env.log.WithFields(logrus.Fields{
		"route": m.router.current().String(),
		"panic": message,
		"stack": string(debug.Stack()),
	}).Error("screen panic")
	m.env.publish(eventbus.ErrorEvent{Message: message})
}

// View renders the UI
func (m *Model) View() string {
	r := m.env.renderer
	route := m.router.current()

	var indicators []string
	if m.status != "" {
		indicators = append(indicators, m.status)
	}
	header := r.Header(m.width, tabs, route.tab(), indicators)

	body := m.body()
	footer := m.help.View(m.bindings())
	if m.readyMarker {
		footer += "\n" + ReadyMarker
	}
	return r.Frame(header, body, footer, m.height)
}

func (m *Model) body() (out string) {
	if m.crash != "" {
		return m.env.renderer.ErrorPanel(m.crash)
	}
	defer func() {
		if r := recover(); r != nil {
			m.recovered(r)
			out = m.env.renderer.ErrorPanel(m.crash)
		}
	}()
	return m.current().view(m.width, m.height, m.spinner.View())
}

func (m *Model) bindings() help.KeyMap {
	k := m.env.keys
	if m.crash != "" {
		return bindings{short: []key.Binding{k.Refetch, k.Back, k.Quit}}
	}
	return m.current().help()
}
