package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pstuifzand/myorganisms/internal/config"
	"github.com/pstuifzand/myorganisms/internal/history"
	"github.com/pstuifzand/myorganisms/internal/prefs"
	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/socket"
	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
	"github.com/pstuifzand/myorganisms/internal/theme"
	"github.com/pstuifzand/myorganisms/internal/ui"
	"github.com/pstuifzand/myorganisms/internal/watcher"
)

// HomePath is the route of the home screen
const HomePath = "/"

// wakeReason is the payload of the interrupt events background work posts
// to the event loop.
type wakeReason int

const (
	// wakeLoaded: a background load finished, only a redraw is needed
	wakeLoaded wakeReason = iota
	// wakePreferencesChanged: the stored preferences or the taxonomy changed
	wakePreferencesChanged
)

// Options configures a new App
type Options struct {
	Config *config.Config
	// Path is the route shown at startup
	Path  string
	Debug bool
	// Screen replaces the terminal, for tests
	Screen tcell.Screen
	// SocketDir is where the control socket is created; empty disables it
	SocketDir string
	// HistoryDir holds the search and command history; empty keeps it in memory
	HistoryDir string
}

// App is the main application controller
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	screen    *ui.Screen
	cfg       *config.Config
	store     *storage.SQLiteStore
	taxonomy  *storage.TaxonomyStore
	prefs     *prefs.Service
	refs      refstrain.Set
	history   *history.Manager
	server    *socket.Server
	watcher   *watcher.Watcher
	reloadCh  chan struct{}
	unsubPref func()

	path      string
	summary   *ui.SummaryView
	organisms *ui.OrganismsView
	configure *ui.ConfigView
	help      *ui.HelpScreen
	command   *ui.CommandMode
	messages  *ui.MessageLogger

	// draft is the selection being edited on the preferences screen
	draft []string
	dirty bool

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune

	// loadErr is the last summary load error shown
	loadErr string

	showMessages bool
	quit         bool
	closed       bool
	debugMode    bool
}

// NewApp loads the taxonomy and the stored preferences and sets up the
// screen.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	taxonomyStore := storage.NewTaxonomyStore(cfg.TaxonomyPath, cfg.TaxonomyRoot)

	// The taxonomy and the database do not depend on each other
	var (
		g     errgroup.Group
		doc   *taxonomy.Document
		store *storage.SQLiteStore
	)
	g.Go(func() error {
		var err error
		doc, err = taxonomyStore.Load()
		return err
	})
	g.Go(func() error {
		var err error
		store, err = storage.OpenSQLiteStore(cfg.DatabasePath)
		return err
	})
	if err := g.Wait(); err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	applyProjectConfig(doc, cfg)

	service := prefs.NewService(store, doc)
	if err := service.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}

	t := theme.LoadThemeOrDefault(cfg.Theme)
	var screen *ui.Screen
	var err error
	if opts.Screen != nil {
		screen, err = ui.NewScreenFrom(opts.Screen, t)
	} else {
		screen, err = ui.NewScreen(t)
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	screen.EnableMouse()

	var historyManager *history.Manager
	if opts.HistoryDir != "" {
		historyManager, err = history.NewManager(opts.HistoryDir)
		if err != nil {
			log.Printf("Failed to open history: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &App{
		ctx:       ctx,
		cancel:    cancel,
		screen:    screen,
		cfg:       cfg,
		store:     store,
		taxonomy:  taxonomyStore,
		prefs:     service,
		history:   historyManager,
		reloadCh:  make(chan struct{}, 1),
		help:      ui.NewHelpScreen(),
		command:   ui.NewCommandMode(historyManager),
		messages:  ui.NewMessageLogger(50),
		draft:     service.PreferredOrganisms(),
		debugMode: opts.Debug,
	}

	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help.SetKeybindings(a.helpKeybindings())

	a.summary = ui.NewSummaryView(ctx, ui.SummaryViewOptions{
		State:      service,
		Notify:     func() { a.wake(wakeLoaded) },
		OnNavigate: a.navigate,
		OnError:    a.postError,
	})
	a.buildViews(doc)
	a.unsubPref = service.Subscribe(func() { a.wake(wakePreferencesChanged) })

	path := opts.Path
	if path == "" {
		path = HomePath
	}
	if err := a.navigateTo(path); err != nil {
		a.SetError(err.Error())
		a.path = HomePath
	}

	if opts.SocketDir != "" {
		server, err := socket.NewServer(opts.SocketDir, os.Getpid())
		if err != nil {
			log.Printf("Failed to start socket server: %v", err)
		} else {
			server.Start()
			a.server = server
		}
	}

	if cfg.GetBool(config.SettingWatch, true) {
		a.startWatcher()
	}

	a.SetStatus(fmt.Sprintf("Loaded %d organisms", taxonomy.LeafCount(doc.Tree)))
	return a, nil
}

// applyProjectConfig lets the config file name the project when the
// taxonomy document does not.
func applyProjectConfig(doc *taxonomy.Document, cfg *config.Config) {
	if cfg.ProjectID != "" {
		doc.ProjectID = cfg.ProjectID
	}
	if cfg.DisplayName != "" {
		doc.DisplayName = cfg.DisplayName
	}
}

// buildViews creates the screens for a taxonomy document
func (a *App) buildViews(doc *taxonomy.Document) {
	a.refs = refstrain.FromDocument(doc, a.cfg.ReferenceStrains...)
	matchKeyword := a.cfg.GetBool(config.SettingReferenceKeyword, true)
	showBadge := a.cfg.GetBool(config.SettingReferenceBadge, true)

	a.organisms = ui.NewOrganismsView(ui.OrganismsViewOptions{
		Tree:                  a.prefs.Filter(doc.Tree),
		ReferenceStrains:      a.refs,
		MatchReferenceKeyword: matchKeyword,
		ShowReferenceBadge:    showBadge,
		SearchHistory:         a.history,
	})
	a.organisms.SetTree(a.prefs.Filter(doc.Tree), a.prefs.Enabled())

	a.configure = ui.NewConfigView(ui.ConfigViewOptions{
		Tree:                  doc.Tree,
		ReferenceStrains:      a.refs,
		ProjectID:             a.prefs.ProjectID(),
		AvailableCount:        taxonomy.LeafCount(doc.Tree),
		SelectedList:          a.draft,
		OnSelectionChange:     a.selectionChanged,
		MatchReferenceKeyword: matchKeyword,
		ShowReferenceBadge:    showBadge,
		SearchHistory:         a.history,
	})
}

func (a *App) startWatcher() {
	w, err := watcher.New(a.taxonomy.FilePath,
		watcher.WithOnChange(func() {
			select {
			case a.reloadCh <- struct{}{}:
			default:
			}
		}),
		watcher.WithOnError(func(err error) {
			if errors.Is(err, watcher.ErrFileRemoved) {
				a.postError(fmt.Errorf("taxonomy file was removed, keeping the loaded one"))
				return
			}
			log.Printf("Watcher error: %v", err)
		}),
	)
	if err != nil {
		log.Printf("Failed to watch taxonomy: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("Failed to watch taxonomy: %v", err)
		return
	}
	a.watcher = w
}

// wake asks the event loop to process a background change. It is safe to
// call from any goroutine.
func (a *App) wake(reason wakeReason) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(reason)); err != nil {
		log.Printf("Failed to post event: %v", err)
	}
}

func (a *App) postError(err error) {
	if perr := a.screen.PostEvent(tcell.NewEventInterrupt(err)); perr != nil {
		log.Printf("Failed to post error %v: %v", err, perr)
	}
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			if event == nil {
				return
			}
			select {
			case eventChan <- event:
			case <-a.ctx.Done():
				return
			}
		}
	}()

	var socketMessages <-chan socket.Message
	if a.server != nil {
		socketMessages = a.server.Messages()
	}

	// The ticker expires status messages
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	a.render()
	for !a.quit {
		select {
		case ev := <-eventChan:
			a.handleRawEvent(ev)
		case msg := <-socketMessages:
			a.handleSocketMessage(msg)
		case <-a.reloadCh:
			a.reloadTaxonomy()
		case <-ticker.C:
		case <-a.ctx.Done():
			a.quit = true
		}
		a.render()
	}

	return nil
}

// Close releases the screen, the socket, the watcher and the database
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.cancel()
	a.summary.Stop()
	if a.unsubPref != nil {
		a.unsubPref()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.server != nil {
		a.server.Stop()
		a.server = nil
	}
	// Background loads may still post to the screen, so it stays set
	a.screen.Close()
	return a.store.Close()
}

// Path returns the current route
func (a *App) Path() string {
	return a.path
}

func (a *App) onPreferencesScreen() bool {
	return strings.HasPrefix(a.path, ui.PreferencesPath)
}

// navigate shows path, reporting unknown routes on the status line
func (a *App) navigate(path string) {
	if err := a.navigateTo(path); err != nil {
		a.SetError(err.Error())
	}
}

func (a *App) navigateTo(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = HomePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != HomePath && !strings.HasPrefix(path, ui.PreferencesPath) {
		return fmt.Errorf("unknown path: %s", path)
	}
	a.path = path
	a.pendingKey = 0
	log.Printf("Navigated to %s", path)
	return nil
}

// selectionChanged is called by the preferences screen when a checkbox
// changes.
func (a *App) selectionChanged(selected []string) {
	a.draft = selected
	a.configure.SetSelection(selected)
	a.dirty = !sameOrganisms(selected, a.prefs.PreferredOrganisms())
}

func sameOrganisms(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// Save stores the draft selection as the preferred organisms
func (a *App) Save() error {
	if err := a.prefs.Save(a.ctx, a.draft); err != nil {
		return err
	}
	a.dirty = false
	a.syncFromPreferences()
	return nil
}

func (a *App) save() {
	if err := a.Save(); err != nil {
		if errors.Is(err, prefs.ErrEmptySelection) {
			a.SetError("Please select at least one organism")
			return
		}
		log.Printf("Failed to save preferences: %v", err)
		a.SetError("Failed to save: " + err.Error())
		return
	}
	a.SetStatus(fmt.Sprintf("Saved %d organisms", len(a.draft)))
}

// Reset discards the draft selection
func (a *App) Reset() {
	a.dirty = false
	a.syncFromPreferences()
}

func (a *App) toggle() {
	a.summary.Toggle()
	if a.prefs.Enabled() {
		a.SetStatus("Disabling My Organisms")
	} else {
		a.SetStatus("Enabling My Organisms")
	}
}

func (a *App) dismiss() {
	if !a.summary.BannerVisible(a.path) {
		a.SetStatus("No new organisms")
		return
	}
	a.summary.Dismiss()
	a.SetStatus("Dismissed new organisms")
}

// syncFromPreferences refreshes the screens after the stored preferences
// changed. An unsaved draft is kept.
func (a *App) syncFromPreferences() {
	doc := a.prefs.Taxonomy()
	if doc == nil {
		return
	}
	a.organisms.SetTree(a.prefs.Filter(doc.Tree), a.prefs.Enabled())
	if !a.dirty {
		a.draft = a.prefs.PreferredOrganisms()
		a.configure.SetSelection(a.draft)
	}
}

// reloadTaxonomy reads the taxonomy file again after it changed on disk
func (a *App) reloadTaxonomy() {
	doc, err := a.taxonomy.Load()
	if err != nil {
		log.Printf("Failed to reload taxonomy: %v", err)
		a.SetError("Failed to reload taxonomy: " + err.Error())
		return
	}
	applyProjectConfig(doc, a.cfg)
	a.prefs.SetTaxonomy(doc)

	// The screens keep their search and expansion, only the tree changes
	a.refs = refstrain.FromDocument(doc, a.cfg.ReferenceStrains...)
	a.organisms.SetReferenceStrains(a.refs)
	a.organisms.SetTree(a.prefs.Filter(doc.Tree), a.prefs.Enabled())
	a.configure.SetReferenceStrains(a.refs)
	a.configure.SetProjectID(a.prefs.ProjectID())
	a.configure.SetTree(doc.Tree, taxonomy.LeafCount(doc.Tree))
	a.summary.Reload()
	a.SetStatus(fmt.Sprintf("Reloaded taxonomy, %d organisms", taxonomy.LeafCount(doc.Tree)))
}

// reportLoadError shows a failed summary load once
func (a *App) reportLoadError() {
	err := a.summary.LoadError()
	if err == nil {
		a.loadErr = ""
		return
	}
	if err.Error() == a.loadErr {
		return
	}
	a.loadErr = err.Error()
	log.Printf("Failed to load organism counts: %v", err)
	a.SetError("Failed to load organism counts: " + err.Error())
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		a.handleInterrupt(ev)
		return
	case *tcell.EventResize:
		a.screen.Sync()
		return
	case *tcell.EventMouse:
		if a.help.IsVisible() || a.command.IsActive() {
			return
		}
		if a.summary.HandleMouse(ev) {
			return
		}
		if a.onPreferencesScreen() {
			a.configure.HandleMouse(ev)
		} else {
			a.organisms.HandleMouse(ev)
		}
		return
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleInterrupt(ev *tcell.EventInterrupt) {
	switch data := ev.Data().(type) {
	case wakeReason:
		switch data {
		case wakePreferencesChanged:
			a.summary.Reload()
			a.syncFromPreferences()
		case wakeLoaded:
			a.reportLoadError()
		}
	case error:
		log.Printf("Background error: %v", data)
		a.SetError(data.Error())
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.command.IsActive() {
		cmd, done := a.command.HandleKey(ev)
		if done {
			a.handleCommand(cmd)
		}
		return
	}

	if a.help.IsVisible() {
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Rune() == '?':
			a.help.Toggle()
		case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
			a.help.Scroll(1)
		case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
			a.help.Scroll(-1)
		}
		return
	}

	if a.showMessages {
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyEnter || ev.Rune() == 'q' {
			a.showMessages = false
		}
		return
	}

	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	// The search box gets every key while it has focus
	if a.isEditingSearch() {
		a.currentViewKey(ev)
		return
	}

	if ev.Key() == tcell.KeyCtrlS {
		a.save()
		return
	}

	if ev.Key() == tcell.KeyRune {
		if a.handleBindingKey(ev.Rune()) {
			return
		}
	} else {
		a.pendingKey = 0
	}
	a.currentViewKey(ev)
}

func (a *App) isEditingSearch() bool {
	if a.onPreferencesScreen() {
		return a.configure.IsEditingSearch()
	}
	return a.organisms.IsEditingSearch()
}

func (a *App) currentViewKey(ev *tcell.EventKey) bool {
	if a.onPreferencesScreen() {
		return a.configure.HandleKey(ev)
	}
	return a.organisms.HandleKey(ev)
}

// handleBindingKey runs the application keybinding for r, if any
func (a *App) handleBindingKey(r rune) bool {
	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		for _, pkb := range a.pendingKeybindings {
			if pkb.Prefix != prefix {
				continue
			}
			if kb, ok := pkb.Sequences[r]; ok {
				kb.Handler(a)
			}
			return true
		}
		return true
	}

	for _, pkb := range a.pendingKeybindings {
		if pkb.Prefix == r {
			a.pendingKey = r
			return true
		}
	}
	for _, kb := range a.keybindings {
		if kb.Key == r {
			kb.Handler(a)
			return true
		}
	}
	return false
}

// render renders the current state to the screen
func (a *App) render() {
	if a.closed {
		return
	}
	a.screen.Clear()
	width, height := a.screen.Size()

	y := 0
	a.summary.Render(a.screen, 0, y, width, a.path)
	y += a.summary.Height(a.path)

	bottom := height - 1
	if a.command.IsActive() {
		bottom--
	}
	if bottom > y {
		if a.onPreferencesScreen() {
			a.configure.Render(a.screen, 0, y, width, bottom-y)
		} else {
			a.organisms.Render(a.screen, 0, y, width, bottom-y)
		}
	}

	if a.command.IsActive() {
		a.command.Render(a.screen, height-2)
	}
	a.renderStatusLine(height-1, width)

	if a.showMessages {
		a.renderMessages(width, height)
	}
	a.help.Render(a.screen)

	a.screen.Show()
}

func (a *App) renderStatusLine(y, width int) {
	a.screen.FillLine(0, y, width, tcell.StyleDefault)

	mode := "-- HOME --"
	if a.onPreferencesScreen() {
		mode = "-- PREFERENCES --"
	}
	x := a.screen.DrawString(0, y, mode, a.screen.StatusModeStyle())

	if msg, ok := a.messages.Current(); ok {
		style := a.screen.StatusMessageStyle()
		if msg.Error {
			style = a.screen.AdvisoryStyle()
		}
		x = a.screen.DrawStringLimited(x+1, y, msg.Text, width-x-1, style)
	}

	if a.dirty {
		label := "(modified)"
		a.screen.DrawString(max(width-ui.StringWidth(label), x+1), y, label, a.screen.StatusModifiedStyle())
	}
}

// renderMessages shows the message history over the lower half of the
// screen, newest first.
func (a *App) renderMessages(width, height int) {
	top := height / 2
	style := a.screen.HelpStyle()
	for y := top; y < height-1; y++ {
		a.screen.FillLine(0, y, width, style)
	}
	a.screen.DrawStringLimited(1, top, "Messages (Esc to close)", width-2, a.screen.HelpTitleStyle())
	for i, msg := range a.messages.GetMessagesReverse() {
		y := top + 1 + i
		if y >= height-1 {
			break
		}
		line := msg.Timestamp.Format("15:04:05") + " " + msg.Text
		lineStyle := style
		if msg.Error {
			lineStyle = a.screen.AdvisoryStyle()
		}
		a.screen.DrawStringLimited(1, y, line, width-2, lineStyle)
	}
}

// SetStatus shows a message on the status line
func (a *App) SetStatus(msg string) {
	a.messages.AddMessage(msg)
}

// SetError shows an error on the status line
func (a *App) SetError(msg string) {
	a.messages.AddError(msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}
