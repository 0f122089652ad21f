// Package tui is the costwatch dashboard: a Bubble Tea program that
// renders provider spend and token usage as stacked daily bar charts.
package tui

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/costwatch/costwatch/internal/core"
	"github.com/costwatch/costwatch/internal/fetch"
	"github.com/costwatch/costwatch/internal/providers/anthropic"
	"github.com/costwatch/costwatch/internal/providers/openai"
)

// scrollRightEdge pins a chart to its newest bars until the user scrolls.
const scrollRightEdge = math.MaxInt32

// session is the per-provider state. Records are replaced wholesale on
// each successful fetch; the view is a snapshot, not a log.
type session struct {
	client   fetch.Client
	fetched  bool
	inFlight bool

	costRecords  []core.CostRecord
	usageRecords []core.UsageRecord
	keyNames     map[string]string
	errors       core.ProviderErrors

	scrollCost  int
	scrollUsage int
}

func newSession() *session {
	return &session{
		keyNames:    make(map[string]string),
		scrollCost:  scrollRightEdge,
		scrollUsage: scrollRightEdge,
	}
}

func (s *session) scroll(m Metric) int {
	if m == MetricCost {
		return s.scrollCost
	}
	return s.scrollUsage
}

func (s *session) setScroll(m Metric, v int) {
	if m == MetricCost {
		s.scrollCost = v
	} else {
		s.scrollUsage = v
	}
}

// ClientFactory builds a billing client for a provider once the user has
// supplied credentials. Swappable in tests.
type ClientFactory func(p core.Provider, apiKey string) fetch.Client

type fetchOutcomeMsg struct {
	outcome core.FetchOutcome
}

// credentialsMsg arrives when the watched env file changes on disk.
type credentialsMsg struct {
	keys map[core.Provider]string
}

type Model struct {
	nav      navState
	sessions map[core.Provider]*session
	factory  ClientFactory

	width  int
	height int

	popupFor    core.Provider
	popupActive bool
	popupInput  textinput.Model

	showSegmentValues bool
	quitting          bool

	credUpdates    <-chan map[core.Provider]string
	saveCredential func(core.Provider, string)
}

// Option configures the model at construction.
type Option func(*Model)

// WithClientFactory overrides how billing clients are built.
func WithClientFactory(f ClientFactory) Option {
	return func(m *Model) { m.factory = f }
}

// WithCredentialUpdates wires a channel of live credential reloads, fed
// by the config watcher.
func WithCredentialUpdates(ch <-chan map[core.Provider]string) Option {
	return func(m *Model) { m.credUpdates = ch }
}

// WithCredentialSaver registers a callback invoked when the user
// connects a provider through the popup, so the key can be persisted.
func WithCredentialSaver(save func(core.Provider, string)) Option {
	return func(m *Model) { m.saveCredential = save }
}

// WithInitialView sets the metric and range the dashboard opens on.
func WithInitialView(metric Metric, rng Range) Option {
	return func(m *Model) {
		m.nav.metric = metric
		m.nav.rng = rng
		if metric == MetricCost {
			m.nav.groupBy = core.GroupByModel
		}
	}
}

// NewModel builds the dashboard with whatever credentials were found at
// startup. Providers without a key stay connectable via the popup.
func NewModel(keys map[core.Provider]string, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = "paste admin API key"
	input.EchoMode = textinput.EchoPassword
	input.CharLimit = 256
	input.Width = 48

	m := Model{
		nav:        newNavState(),
		sessions:   make(map[core.Provider]*session),
		factory:    defaultClientFactory,
		popupInput: input,
	}
	for _, p := range core.AllProviders() {
		m.sessions[p] = newSession()
	}
	for _, opt := range opts {
		opt(&m)
	}
	for p, key := range keys {
		if key != "" {
			m.sessions[p].client = m.factory(p, key)
		}
	}
	m.ensureSelectionHasClient()
	if m.session().client == nil {
		m.openPopup(m.nav.provider)
	}
	return m
}

// ensureSelectionHasClient moves the selection onto a connected provider
// when the default one has no credentials.
func (m *Model) ensureSelectionHasClient() {
	if m.session().client != nil {
		return
	}
	for _, p := range core.AllProviders() {
		if m.sessions[p].client != nil {
			m.nav.provider = p
			return
		}
	}
}

func (m *Model) session() *session {
	return m.sessions[m.nav.provider]
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if cmd := m.startFetch(m.nav.provider); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.credUpdates != nil {
		cmds = append(cmds, waitForCredentials(m.credUpdates))
	}
	return tea.Batch(cmds...)
}

// startFetch kicks off one fetch cycle for a provider. A cycle already
// in flight makes this a no-op; requests are dropped, not queued.
func (m Model) startFetch(p core.Provider) tea.Cmd {
	s := m.sessions[p]
	if s.client == nil || s.inFlight {
		return nil
	}
	s.inFlight = true
	s.errors = core.ProviderErrors{}
	client := s.client
	return func() tea.Msg {
		return fetchOutcomeMsg{outcome: fetch.Run(context.Background(), client, time.Now())}
	}
}

func waitForCredentials(ch <-chan map[core.Provider]string) tea.Cmd {
	return func() tea.Msg {
		keys, ok := <-ch
		if !ok {
			return nil
		}
		return credentialsMsg{keys: keys}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchOutcomeMsg:
		// Commit by originating provider, never by current selection:
		// a fetch finishing after the user navigated away must not
		// touch the active view.
		s := m.sessions[msg.outcome.Provider]
		s.inFlight = false
		s.fetched = true
		s.costRecords = msg.outcome.CostRecords
		s.usageRecords = msg.outcome.UsageRecords
		s.keyNames = msg.outcome.KeyNames
		s.errors = msg.outcome.Errors
		if msg.outcome.Provider == m.nav.provider {
			m.nav.syncFilter(m.availableFilters())
		}
		return m, nil

	case credentialsMsg:
		var cmds []tea.Cmd
		for p, key := range msg.keys {
			s := m.sessions[p]
			if key == "" || s.client != nil {
				continue
			}
			log.Printf("credentials appeared for %s", p.Label())
			s.client = m.factory(p, key)
			s.fetched = false
			if m.popupActive && m.popupFor == p {
				m.popupActive = false
				m.popupInput.Reset()
			}
			if p == m.nav.provider {
				if cmd := m.startFetch(p); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		if m.credUpdates != nil {
			cmds = append(cmds, waitForCredentials(m.credUpdates))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.popupActive {
		var cmd tea.Cmd
		m.popupInput, cmd = m.popupInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.popupActive {
		return m.handlePopupKey(msg)
	}

	switch msg.String() {
	case "q", "Q":
		m.quitting = true
		return m, tea.Quit

	case "left":
		m.nav.moveColumn(-1)
	case "right":
		m.nav.moveColumn(1)

	case "up", "down":
		delta := 1
		if msg.String() == "up" {
			delta = -1
		}
		if m.nav.groupByExpanded && m.nav.column == colGroupBy {
			m.nav.moveFilterCursor(delta, m.availableFilters())
			return m, nil
		}
		if m.nav.moveCursor(delta) {
			s := m.session()
			if s.client == nil {
				m.openPopup(m.nav.provider)
				return m, textinput.Blink
			}
			if !s.fetched {
				return m, m.startFetch(m.nav.provider)
			}
		}
		if m.nav.column == colRange {
			// A narrower window can drop the selected category entirely.
			m.nav.syncFilter(m.availableFilters())
		}

	case "enter":
		if m.nav.column == colGroupBy && m.nav.metric == MetricUsage {
			m.nav.toggleGroupByExpansion()
		}

	case "h", "H":
		m.scrollChart(-1)
	case "l", "L":
		m.scrollChart(1)

	case "d", "D":
		m.showSegmentValues = !m.showSegmentValues

	case "r", "R":
		return m, m.startFetch(m.nav.provider)
	}

	return m, nil
}

func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		key := strings.TrimSpace(m.popupInput.Value())
		if key == "" {
			return m, nil
		}
		s := m.sessions[m.popupFor]
		s.client = m.factory(m.popupFor, key)
		s.fetched = false
		m.popupActive = false
		m.popupInput.Reset()
		if m.saveCredential != nil {
			m.saveCredential(m.popupFor, key)
		}
		return m, m.startFetch(m.popupFor)
	}

	var cmd tea.Cmd
	m.popupInput, cmd = m.popupInput.Update(msg)
	return m, cmd
}

func (m *Model) openPopup(p core.Provider) {
	m.popupActive = true
	m.popupFor = p
	m.popupInput.Reset()
	m.popupInput.Focus()
}

// scrollChart moves the active chart by whole bars, clamped to the bar
// range the current layout can address.
func (m *Model) scrollChart(delta int) {
	s := m.session()
	dates := m.chartDates()
	layout := barLayout(len(dates), m.chartWidth(), s.scroll(m.nav.metric))
	if layout == nil {
		return
	}
	next := clampScroll(layout.startIndex+delta, len(dates), layout.visibleCount)
	s.setScroll(m.nav.metric, next)
}

func defaultClientFactory(p core.Provider, apiKey string) fetch.Client {
	if p == core.ProviderAnthropic {
		return anthropic.New(apiKey)
	}
	return openai.New(apiKey)
}
