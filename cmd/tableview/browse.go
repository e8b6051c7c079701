package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nao1215/tableview"
	"github.com/nao1215/tableview/domain/colormap"
	"github.com/nao1215/tableview/domain/model"
	"github.com/nao1215/tableview/pagestore"
)

const (
	browseCellWidth = 12
	pageRows        = 10
	// chromeLines are the header and status lines around the grid.
	chromeLines = 2
)

type browseOptions struct {
	store string
	table string
}

func newBrowseCmd(a *app) *cobra.Command {
	opts := &browseOptions{}
	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "Scroll through a large table interactively",
		Long: `browse pages through a table held in SQLite, loading rows and columns
as the viewport nears the edge of what is loaded. FILE is either a SQLite
database (.db, .sqlite, .sqlite3) holding --table, or any file tableview can
read, which is first copied into --store.

Keys:
  arrows/hjkl  move         pgup/pgdown  page
  b            toggle bars  p            next palette for the column
  s / S        sort asc/desc by the column
  y / Y        copy the row as TSV / CSV
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrowse(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.store, "store", ":memory:", "SQLite database that non-SQLite input is copied into")
	cmd.Flags().StringVarP(&opts.table, "table", "t", "data", "SQLite table to browse")
	return cmd
}

func (a *app) runBrowse(cmd *cobra.Command, path string, opts *browseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := a.openStore(ctx, path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close page store", slog.Any("error", err))
		}
	}()

	t, err := model.LoadWindow(ctx, store, model.Window{}, a.config.PageStore.Rows, a.config.PageStore.Cols)
	if err != nil {
		return err
	}
	vm := a.viewModel()
	vm.SetData(t)

	m := newBrowseModel(ctx, vm, tableview.NewLazyLoader(vm, a.config.Lazy), tableview.SystemClipboard{})
	m.title = store.Name()
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// openStore opens a SQLite input directly and streams anything else into the store.
func (a *app) openStore(ctx context.Context, path string, opts *browseOptions) (*pagestore.Store, error) {
	if isSQLiteFile(path) {
		return pagestore.Open(ctx, path, opts.table, pagestore.WithLogger(a.logger))
	}
	streamOpts := append(a.config.StreamOptions(), tableview.WithStreamLogger(a.logger))
	return tableview.StreamToStore(ctx, path, opts.store, opts.table, streamOpts...)
}

func isSQLiteFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// settleMsg is delivered after the scroll debounce window.
type settleMsg struct {
	token uint64
}

// browseModel is the bubbletea model of the browse command.
type browseModel struct {
	ctx       context.Context
	vm        *tableview.ViewModel
	loader    *tableview.LazyLoader
	clipboard tableview.Clipboard
	title     string

	row, col  int
	top, left int

	width, height int
	status        string
}

func newBrowseModel(ctx context.Context, vm *tableview.ViewModel, loader *tableview.LazyLoader, cb tableview.Clipboard) browseModel {
	return browseModel{
		ctx:       ctx,
		vm:        vm,
		loader:    loader,
		clipboard: cb,
		width:     80,
		height:    24,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.follow()
		return m, m.scrolled()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case settleMsg:
		if !m.loader.Debouncer().Fire(msg.token) {
			return m, nil
		}
		return m.load(), nil
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows, cols := m.vm.RowCount(), m.vm.ColumnCount()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.row--
	case "down", "j":
		m.row++
	case "left", "h":
		m.col--
	case "right", "l":
		m.col++
	case "pgup":
		m.row -= pageRows
	case "pgdown":
		m.row += pageRows
	case "home":
		m.col = 0
	case "end":
		m.col = cols - 1
	case "b":
		m.vm.SetShowBars(!m.vm.ShowBars())
		return m, nil
	case "p":
		m.cyclePalette()
		return m, nil
	case "s", "S":
		order := tableview.Ascending
		if msg.String() == "S" {
			order = tableview.Descending
		}
		m.vm.Sort(m.col, order)
		m.status = fmt.Sprintf("sorted loaded rows by %s (%s)", m.vm.HeaderData(m.col, tableview.Horizontal), order)
		return m, nil
	case "y", "Y":
		m.copyRow(msg.String() == "Y")
		return m, nil
	default:
		return m, nil
	}
	m.row = min(max(m.row, 0), max(rows-1, 0))
	m.col = min(max(m.col, 0), max(cols-1, 0))
	m.follow()
	return m, m.scrolled()
}

// scrolled restarts the debounce window.
func (m browseModel) scrolled() tea.Cmd {
	token := m.loader.Debouncer().Scrolled()
	return tea.Tick(m.loader.Debouncer().Delay(), func(time.Time) tea.Msg {
		return settleMsg{token: token}
	})
}

// load extends the loaded window around the viewport and keeps the cursor on
// the same cell when rows or columns arrive before it.
func (m browseModel) load() browseModel {
	res, err := m.loader.Check(m.ctx, m.viewport())
	m.row += res.Top
	m.top += res.Top
	m.col += res.Left
	m.left += res.Left
	if err != nil {
		m.status = "load failed: " + err.Error()
	} else if res.Any() {
		m.status = fmt.Sprintf("loaded %d rows, %d columns", res.Top+res.Bottom, res.Left+res.Right)
	}
	return m
}

func (m browseModel) visibleRows() int {
	return max(m.height-chromeLines, 1)
}

func (m browseModel) visibleCols() int {
	return max(m.width/(browseCellWidth+1), 1)
}

// follow scrolls so that the cursor is visible.
func (m *browseModel) follow() {
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+m.visibleRows() {
		m.top = m.row - m.visibleRows() + 1
	}
	if m.col < m.left {
		m.left = m.col
	}
	if m.col >= m.left+m.visibleCols() {
		m.left = m.col - m.visibleCols() + 1
	}
}

func (m browseModel) viewport() tableview.Viewport {
	return tableview.Viewport{
		FirstRow: m.top,
		LastRow:  min(m.top+m.visibleRows(), m.vm.RowCount()) - 1,
		FirstCol: m.left,
		LastCol:  min(m.left+m.visibleCols(), m.vm.ColumnCount()) - 1,
	}
}

func (m *browseModel) cyclePalette() {
	if !m.vm.IsNumericColumn(m.col) {
		m.status = "palettes apply to numeric columns"
		return
	}
	ids := colormap.IDs()
	next := ids[(slices.Index(ids, m.vm.ColumnPalette(m.col))+1)%len(ids)]
	m.vm.SetColumnPalette(m.col, next)
	m.status = "palette " + next.String()
}

func (m *browseModel) copyRow(asCSV bool) {
	if err := m.vm.CopyRows(m.clipboard, []int{m.row}, asCSV); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied row %d", m.row)
}

func (m browseModel) View() string {
	g := grid{
		vm:        m.vm,
		firstRow:  m.top,
		rows:      m.visibleRows(),
		firstCol:  m.left,
		cols:      m.visibleCols(),
		cellWidth: browseCellWidth,
		cursorRow: m.row,
		cursorCol: m.col,
	}

	var b strings.Builder
	b.WriteString(g.render())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m browseModel) renderStatusBar() string {
	status := fmt.Sprintf("%s | Row %d/%d | Col %d/%d", m.title,
		m.row+1, m.vm.RowCount(), m.col+1, m.vm.ColumnCount())
	if m.status != "" {
		status += " | " + m.status
	}
	return statusStyle.Width(m.width).Render(status)
}
