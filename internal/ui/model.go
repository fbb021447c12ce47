package ui

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/casemark/depo-review/internal/annotation"
	"github.com/casemark/depo-review/internal/config"
	"github.com/casemark/depo-review/internal/journal"
	"github.com/casemark/depo-review/internal/pipeline"
	"github.com/casemark/depo-review/internal/transcript"
)

type State int

const (
	StateSelecting State = iota
	StateLoading
	StateReviewing
	StateAnnotating
	StateMessage
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "Selecting"
	case StateLoading:
		return "Loading"
	case StateReviewing:
		return "Reviewing"
	case StateAnnotating:
		return "Annotating"
	case StateMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

type Model struct {
	state  State
	width  int
	height int
	styles Styles
	keys   KeyMap

	themeIndex int
	showHelp   bool
	mode       string // "pair" or "deposition"

	cfg     *config.Config
	client  *pipeline.Client
	journal *journal.Journal

	spinner  spinner.Model
	pairList PairList

	pairs       []pipeline.FilePair
	depositions []pipeline.Deposition

	review             *ReviewView
	sheet              *annotation.Sheet
	citations          []annotation.Citation
	citedIndexByAnchor map[string]int
	saver              *annotation.AutoSaver

	form         *JudgementForm
	huhForm      *huh.Form
	formCitation int

	statusMessage string
	messageType   string
	returnState   State
}

func NewModel() *Model {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{Mode: "pair"}
	}

	client := pipeline.NewClient(pipeline.WithBaseURL(cfg.PipelineURL))

	var j *journal.Journal
	if path, err := cfg.EffectiveJournalPath(); err == nil {
		if j, err = journal.Open(path); err != nil {
			log.Printf("journal disabled: %v", err)
			j = nil
		}
	}

	themeNames := GetThemeNames()
	themeIndex := -1
	themeName := cfg.Theme

	for i, name := range themeNames {
		if name == themeName {
			themeIndex = i
			break
		}
	}

	if themeIndex == -1 {
		themeName = "default"
		themeIndex = 0
	}

	mode := cfg.Mode
	if mode != "deposition" {
		mode = "pair"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[themeName].Primary))

	styles := NewStyles(Themes[themeName])

	m := &Model{
		state:      StateLoading,
		styles:     styles,
		keys:       DefaultKeyMap(),
		themeIndex: themeIndex,
		mode:       mode,
		cfg:        cfg,
		client:     client,
		journal:    j,
		spinner:    s,
		pairList:   NewPairList(80, 24),
		review:     NewReviewView(80, 24, styles),
	}
	m.pairList.UpdateStyles(Themes[themeName])
	return m
}

func (m *Model) cycleTheme() {
	themeNames := GetThemeNames()
	m.themeIndex = (m.themeIndex + 1) % len(themeNames)
	newTheme := themeNames[m.themeIndex]
	m.styles = NewStyles(Themes[newTheme])
	m.pairList.UpdateStyles(Themes[newTheme])
	m.review.SetStyles(m.styles)
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[newTheme].Primary))

	if m.cfg != nil {
		m.cfg.Theme = newTheme
		_ = m.cfg.Save()
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startListing())
}

// Close releases the model's resources.
func (m *Model) Close() {
	if m.journal != nil {
		m.journal.Close()
	}
}

type PairsLoadedMsg struct {
	Pairs []pipeline.FilePair
}

type DepositionsLoadedMsg struct {
	Depositions []pipeline.Deposition
}

type ResultLoadedMsg struct {
	Payload *pipeline.ResultPayload
}

type NuggetsLoadedMsg struct {
	Payload *pipeline.NuggetPayload
	// RawText carries the transcript fetched separately when the payload
	// has no segment records of its own.
	RawText string
}

type PushFinishedMsg struct {
	Pushed bool
	Err    error
}

type ErrorMsg struct {
	Error error
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pairList.SetWidthHeight(msg.Width, msg.Height)
		m.review.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case EmphasisExpiredMsg:
		m.review.ExpireEmphasis(msg.Generation)
		return m, nil

	case PairsLoadedMsg:
		m.pairs = msg.Pairs
		sort.SliceStable(m.pairs, func(i, j int) bool {
			return m.pairs[i].CaseName < m.pairs[j].CaseName
		})
		rows := make([]ListRow, len(m.pairs))
		for i, p := range m.pairs {
			rows[i] = ListRow{Case: p.CaseName, Deposition: p.Deposition, Summary: p.Summary}
		}
		m.pairList.SetRows(rows)
		m.statusMessage = fmt.Sprintf("%d pairs available", len(m.pairs))
		m.state = StateSelecting
		return m, nil

	case DepositionsLoadedMsg:
		m.depositions = msg.Depositions
		sort.SliceStable(m.depositions, func(i, j int) bool {
			return m.depositions[i].CaseName < m.depositions[j].CaseName
		})
		rows := make([]ListRow, len(m.depositions))
		for i, d := range m.depositions {
			rows[i] = ListRow{Case: d.CaseName, Deposition: d.Name}
		}
		m.pairList.SetRows(rows)
		m.statusMessage = fmt.Sprintf("%d depositions available", len(m.depositions))
		m.state = StateSelecting
		return m, nil

	case ResultLoadedMsg:
		m.loadResult(msg.Payload)
		return m, nil

	case NuggetsLoadedMsg:
		m.loadNuggets(msg.Payload, msg.RawText)
		return m, nil

	case PushFinishedMsg:
		if msg.Err != nil {
			m.statusMessage = fmt.Sprintf("autosave failed: %v", msg.Err)
		} else if msg.Pushed {
			m.statusMessage = "annotations saved"
		}
		return m, nil

	case ErrorMsg:
		m.statusMessage = msg.Error.Error()
		m.messageType = "error"
		m.returnState = StateSelecting
		m.state = StateMessage
		return m, nil
	}

	if m.state == StateAnnotating {
		return m.updateForm(msg)
	}

	return m, nil
}

// loadResult wires a processed pair into the review session: a fresh
// sheet, a fresh session token, and the review panes.
func (m *Model) loadResult(payload *pipeline.ResultPayload) {
	segments := pipeline.Segments(payload.CitationData)
	frags := pipeline.Fragments(payload.CitationData)
	m.citations = pipeline.Citations(payload.UnsortedCitationData)

	// Key by anchor id: labels can repeat when the same transcript range
	// backs two summary facts, anchors cannot. A record without an id
	// falls back to its label.
	m.citedIndexByAnchor = make(map[string]int)
	idx := 0
	for _, rec := range payload.UnsortedCitationData {
		if !rec.Cited {
			continue
		}
		key := rec.ID
		if key == "" {
			key = rec.CitationStr
		}
		if _, seen := m.citedIndexByAnchor[key]; !seen {
			m.citedIndexByAnchor[key] = idx
		}
		idx++
	}

	m.sheet = annotation.NewSheet()
	token := annotation.NewInstanceToken()
	m.saver = annotation.NewAutoSaver(m.client, annotation.ResultKey(payload.SummaryFileName, token))

	m.review.SetContent(segments, frags, payload.Data.Summary, m.citations, payload.Data.Stats.SummaryLength)
	m.statusMessage = ""
	m.state = StateReviewing
}

// loadNuggets wires a standalone deposition into the review panes.
// Annotation is a pair-mode feature, so no sheet is created.
func (m *Model) loadNuggets(payload *pipeline.NuggetPayload, rawText string) {
	segments := pipeline.Segments(payload.CitationData)
	if len(segments) == 0 && rawText != "" {
		segments = segmentsFromText(rawText)
	}
	nuggets := make([]NuggetItem, len(payload.Data.Nuggets))
	for i, n := range payload.Data.Nuggets {
		nuggets[i] = NuggetItem{
			Text:     n.Text,
			Fragment: n.CitationStr,
			Anchor:   pipeline.AnchorFromLink(n.Link),
		}
	}

	m.sheet = nil
	m.saver = nil
	m.citations = nil
	m.citedIndexByAnchor = nil

	m.review.SetNuggetContent(segments, nuggets)
	m.statusMessage = ""
	m.state = StateReviewing
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateAnnotating {
		return m.updateForm(msg)
	}
	if m.state == StateMessage {
		m.state = m.returnState
		m.statusMessage = ""
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case keyMatches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	switch m.state {
	case StateSelecting:
		return m.handleSelectingKeys(msg)
	case StateReviewing:
		return m.handleReviewingKeys(msg)
	}

	return m, nil
}

func (m *Model) handleSelectingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Up):
		m.pairList.MoveCursor(-1)
	case keyMatches(msg, m.keys.Down):
		m.pairList.MoveCursor(1)
	case keyMatches(msg, m.keys.Enter):
		return m, m.startProcessing(m.pairList.Cursor())
	case keyMatches(msg, m.keys.ToggleMode):
		if m.mode == "pair" {
			m.mode = "deposition"
		} else {
			m.mode = "pair"
		}
		if m.cfg != nil {
			m.cfg.Mode = m.mode
			_ = m.cfg.Save()
		}
		return m, m.startListing()
	case keyMatches(msg, m.keys.Refresh):
		return m, m.startListing()
	}
	return m, nil
}

func (m *Model) handleReviewingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Up):
		m.review.Scroll(-1)
	case keyMatches(msg, m.keys.Down):
		m.review.Scroll(1)
	case keyMatches(msg, m.keys.FocusPane):
		m.review.ToggleFocus()
	case keyMatches(msg, m.keys.NextCitation):
		return m, m.review.CycleCitation(1)
	case keyMatches(msg, m.keys.PrevCitation):
		return m, m.review.CycleCitation(-1)
	case keyMatches(msg, m.keys.Enter):
		if m.review.Focus() == PaneSummary {
			return m, m.review.ActivateCurrentLink()
		}
	case keyMatches(msg, m.keys.Annotate):
		return m.openAnnotationForm()
	case keyMatches(msg, m.keys.Export):
		if err := m.ExportSnapshotToClipboard(); err != nil {
			m.statusMessage = fmt.Sprintf("Export failed: %v", err)
			m.messageType = "error"
		} else {
			m.statusMessage = "Annotations exported to clipboard"
			m.messageType = "success"
		}
		m.returnState = StateReviewing
		m.state = StateMessage
	case keyMatches(msg, m.keys.Refresh):
		return m, m.startListing()
	case keyMatches(msg, m.keys.Back):
		m.state = StateSelecting
		m.statusMessage = ""
	}
	return m, nil
}

// openAnnotationForm starts the judgement form for the citation under
// the cursor. Only cited passages in a pair session are annotatable.
func (m *Model) openAnnotationForm() (tea.Model, tea.Cmd) {
	if m.sheet == nil {
		m.statusMessage = "annotation is only available for summary pairs"
		m.messageType = "error"
		m.returnState = StateReviewing
		m.state = StateMessage
		return m, nil
	}

	citation, ok := m.citedIndexByAnchor[m.review.CurrentCitationAnchor()]
	if !ok {
		// Records without an anchor id are keyed by label instead.
		citation, ok = m.citedIndexByAnchor[m.review.CurrentCitationLabel()]
	}
	if !ok {
		m.statusMessage = "no citation under cursor"
		m.messageType = "error"
		m.returnState = StateReviewing
		m.state = StateMessage
		return m, nil
	}

	m.formCitation = citation
	m.form = NewJudgementForm(m.sheet.Judgement(citation))
	m.huhForm = m.form.GetForm()
	m.state = StateAnnotating
	return m, m.huhForm.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.huhForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.huhForm = f
	}

	switch m.huhForm.State {
	case huh.StateCompleted:
		m.form.Apply(m.sheet, m.formCitation)
		m.state = StateReviewing
		return m, tea.Batch(cmd, m.pushSnapshot())
	case huh.StateAborted:
		m.state = StateReviewing
		return m, cmd
	}
	return m, cmd
}

// pushSnapshot delivers the sheet to the backend and journals the
// attempt. Fire-and-forget: a failure surfaces in the status line but is
// never retried, the next snapshot supersedes it.
func (m *Model) pushSnapshot() tea.Cmd {
	if m.saver == nil || m.sheet == nil {
		return nil
	}
	saver := m.saver
	sheet := m.sheet
	citations := m.citations
	j := m.journal

	return func() tea.Msg {
		pushed, err := saver.Push(context.Background(), sheet, citations)
		if pushed && j != nil {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}
			if jerr := j.Append(saver.ResultID(), sheet.Snapshot(citations), err == nil, errMsg); jerr != nil {
				log.Printf("journal append: %v", jerr)
			}
		}
		return PushFinishedMsg{Pushed: pushed, Err: err}
	}
}

func (m *Model) startListing() tea.Cmd {
	m.state = StateLoading
	m.statusMessage = "Loading from pipeline..."
	mode := m.mode
	client := m.client

	return func() tea.Msg {
		if mode == "deposition" {
			deps, err := client.ListDepositions(context.Background())
			if err != nil {
				return ErrorMsg{Error: err}
			}
			return DepositionsLoadedMsg{Depositions: deps}
		}
		pairs, err := client.ListFilePairs(context.Background())
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return PairsLoadedMsg{Pairs: pairs}
	}
}

func (m *Model) startProcessing(index int) tea.Cmd {
	mode := m.mode
	client := m.client

	if mode == "deposition" {
		if index < 0 || index >= len(m.depositions) {
			return nil
		}
		depo := m.depositions[index]
		m.state = StateLoading
		m.statusMessage = "Processing " + depo.Name + "..."
		return func() tea.Msg {
			payload, err := client.ProcessDeposition(context.Background(), depo)
			if err != nil {
				return ErrorMsg{Error: err}
			}
			raw := ""
			if len(payload.CitationData) == 0 {
				if text, terr := client.GetDepositionText(context.Background(), depo); terr == nil {
					raw = text
				} else {
					log.Printf("deposition text fetch: %v", terr)
				}
			}
			return NuggetsLoadedMsg{Payload: payload, RawText: raw}
		}
	}

	if index < 0 || index >= len(m.pairs) {
		return nil
	}
	pair := m.pairs[index]
	m.state = StateLoading
	m.statusMessage = "Processing " + pair.Summary + "..."
	return func() tea.Msg {
		payload, err := client.ProcessPair(context.Background(), pair)
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return ResultLoadedMsg{Payload: payload}
	}
}

func (m *Model) View() string {
	var content string
	centered := false

	switch m.state {
	case StateSelecting:
		content = m.selectingView()
	case StateLoading:
		content = m.loadingView()
		centered = true
	case StateReviewing:
		content = m.reviewingView()
	case StateAnnotating:
		content = m.annotatingView()
	case StateMessage:
		content = m.messageView()
		centered = true
	default:
		return "Unknown state"
	}

	if centered && m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}

	return content
}

func (m *Model) selectingView() string {
	modeTag := "[Pairs]"
	if m.mode == "deposition" {
		modeTag = "[Depositions]"
	}
	headerLeft := m.styles.HelpKey.Render("Depo Review " + modeTag)
	countText := m.styles.HelpDesc.Render(fmt.Sprintf("%d/%d", m.pairList.Cursor()+1, m.pairList.Len()))
	headerGap := ""
	if m.width > 0 {
		gap := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(countText) - 4
		if gap > 0 {
			headerGap = strings.Repeat(" ", gap)
		}
	}
	header := m.styles.HeaderBar.Width(m.width - 1).Render(headerLeft + headerGap + countText)

	var list string
	if m.pairList.Len() == 0 {
		list = m.styles.Normal.Render("  Nothing to review")
	} else {
		list = m.pairList.View()
	}

	var statusLine string
	if m.statusMessage != "" {
		statusLine = m.styles.Help.Render("  " + m.statusMessage)
	}

	footer := m.renderHelpLine([]helpEntry{
		{"j/k", "navigate"},
		{"enter", "open"},
		{"m", "mode"},
		{"R", "refresh"},
		{"t", "theme"},
		{"q", "quit"},
	})

	parts := []string{header, list}
	if statusLine != "" {
		parts = append(parts, statusLine)
	}
	parts = append(parts, m.styles.FooterBar.Width(m.width-1).Render(footer))

	return m.padToHeight(strings.Join(parts, "\n"))
}

func (m *Model) loadingView() string {
	content := m.styles.Border.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.Title.Render("Deposition Pipeline"),
			"",
			m.styles.Normal.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.statusMessage)),
		),
	)

	help := m.renderHelpLine([]helpEntry{{"q", "cancel"}})
	return lipgloss.JoinVertical(lipgloss.Center, "", content, "", help)
}

func (m *Model) reviewingView() string {
	modeTag := "[Pair]"
	if m.mode == "deposition" {
		modeTag = "[Deposition]"
	}
	header := m.styles.HeaderBar.Width(m.width - 1).Render(
		m.styles.HelpKey.Render("Depo Review " + modeTag),
	)

	var statusLine string
	if m.statusMessage != "" {
		statusLine = m.styles.Help.Render("  " + m.statusMessage)
	}

	var footer string
	if m.showHelp {
		footer = m.renderFullHelp()
	} else {
		footer = m.renderReviewFooter()
	}

	parts := []string{header, m.review.View()}
	if statusLine != "" {
		parts = append(parts, statusLine)
	}
	parts = append(parts, footer)

	return m.padToHeight(strings.Join(parts, "\n"))
}

func (m *Model) annotatingView() string {
	title := m.styles.Title.Render("Annotate " + m.review.CurrentCitationLabel())
	return m.padToHeight(title + "\n\n" + m.huhForm.View())
}

func (m *Model) messageView() string {
	var icon, title string
	var titleStyle lipgloss.Style

	if m.messageType == "error" {
		icon = "✗"
		title = "Error"
		titleStyle = m.styles.Error
	} else {
		icon = "✓"
		title = "Success"
		titleStyle = m.styles.Success
	}

	content := m.styles.Border.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render(icon+" "+title),
			"",
			m.styles.Normal.Render(m.statusMessage),
		),
	)

	help := m.renderHelpLine([]helpEntry{{"any key", "continue"}})
	return lipgloss.JoinVertical(lipgloss.Center, "", content, "", help)
}

// padToHeight pads output to exactly the terminal height so the alternate
// screen buffer repaints cleanly.
func (m *Model) padToHeight(content string) string {
	if m.height <= 0 {
		return content
	}
	rendered := strings.Split(content, "\n")
	for len(rendered) < m.height {
		rendered = append(rendered, "")
	}
	return strings.Join(rendered[:m.height], "\n")
}

// Help rendering

type helpEntry struct {
	key  string
	desc string
}

func (m *Model) renderHelpLine(entries []helpEntry) string {
	var parts []string
	sep := m.styles.HelpSep.Render(" · ")
	for _, e := range entries {
		parts = append(parts, m.styles.HelpKey.Render(e.key)+" "+m.styles.HelpDesc.Render(e.desc))
	}
	return strings.Join(parts, sep)
}

func (m *Model) renderReviewFooter() string {
	line1 := []helpEntry{
		{"j/k", "scroll"},
		{"tab", "pane"},
		{"n/p", "citation"},
		{"enter", "follow link"},
	}
	line2 := []helpEntry{
		{"a", "annotate"},
		{"e", "export"},
		{"t", "theme"},
		{"esc", "back"},
		{"?", "help"},
		{"q", "quit"},
	}

	return m.styles.FooterBar.Width(m.width - 1).Render(
		m.renderHelpLine(line1) + "\n" + m.renderHelpLine(line2),
	)
}

func (m *Model) renderFullHelp() string {
	sections := []struct {
		title   string
		entries []helpEntry
	}{
		{"Navigation", []helpEntry{
			{"j / ↓", "scroll down"},
			{"k / ↑", "scroll up"},
			{"tab", "switch pane"},
			{"n", "next citation"},
			{"p", "previous citation"},
			{"enter", "follow summary link"},
		}},
		{"Annotation", []helpEntry{
			{"a", "annotate citation under cursor"},
			{"e", "export annotations to clipboard"},
		}},
		{"General", []helpEntry{
			{"m", "toggle pair/deposition mode"},
			{"R", "refresh"},
			{"t", "cycle theme"},
			{"esc", "back to selection"},
			{"?", "toggle this help"},
			{"q / ctrl+c", "quit"},
		}},
	}

	var lines []string
	for _, sec := range sections {
		lines = append(lines, m.styles.HelpKey.Render("  "+sec.title))
		for _, e := range sec.entries {
			lines = append(lines, fmt.Sprintf("    %s  %s",
				m.styles.HelpKey.Render(fmt.Sprintf("%-12s", e.key)),
				m.styles.HelpDesc.Render(e.desc),
			))
		}
	}

	return m.styles.FooterBar.Width(m.width - 1).Render(strings.Join(lines, "\n"))
}

// segmentsFromText turns raw transcript text into addressable segments,
// one per paragraph, when the backend sent no segment records.
func segmentsFromText(text string) []transcript.Segment {
	var segs []transcript.Segment
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		segs = append(segs, transcript.Segment{
			Index: len(segs),
			Page:  1,
			Text:  para,
		})
	}
	return segs
}

func keyMatches(msg tea.KeyMsg, target key.Binding) bool {
	for _, k := range target.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
