package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chartsurfer/internal/game"
)

const chartHeight = 14

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	feverStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f472b6"))
	newsStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fde047")).
			Border(lipgloss.RoundedBorder()).Padding(0, 1)
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
)

func (m Model) View() string {
	snap := m.snapshot
	switch snap.State {
	case game.StateTitle:
		return m.viewTitle(snap)
	case game.StateTutorial:
		return m.viewTutorial()
	case game.StateResult:
		return m.viewResult(snap)
	case game.StateMissionComplete:
		return m.viewMissionComplete(snap)
	case game.StateRealEstate:
		return m.viewRealEstate(snap)
	default:
		return m.viewPlaying(snap)
	}
}

func (m Model) viewTitle(snap game.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("C H A R T   S U R F E R"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ride the candles, beat the clock"))
	b.WriteString("\n\n")
	b.WriteString(renderChart(snap.Candles, chartHeight))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  high score  %s\n", game.FormatMoney(snap.HighScore))
	fmt.Fprintf(&b, "  level       %d\n\n", snap.Progress.Level)
	b.WriteString(titleStyle.Render("  press enter to start"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) viewTutorial() string {
	lines := []string{
		titleStyle.Render("HOW TO PLAY"),
		"",
		"d       open a LONG, profit when price rises",
		"a       open a SHORT, profit when price falls",
		"s/space close the position and bank the result",
		"tab     cycle bet size (10% / 25% / 50% / 100%)",
		"1       SLOW item: stretches time for a moment",
		"2       VIEW item: reveals the market trend",
		"",
		"Chain winning closes to build a combo.",
		"Two in a row ignites FEVER: double profit.",
		"Hit the stage target before the clock runs out.",
		"",
		titleStyle.Render("press enter to begin"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewPlaying(snap game.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  STAGE %d   %s   target %s / %s\n",
		snap.Stage,
		game.FormatClock(snap.TimeLeft),
		game.FormatMoney(snap.Player.StageProfit),
		game.FormatMoney(snap.Target),
	)
	if snap.StageTime > 0 {
		b.WriteString("  " + m.timerBar.ViewAs(snap.TimeLeft/snap.StageTime) + "\n")
	}

	if snap.News != nil {
		b.WriteString(newsStyle.Render(snap.News.Text) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(renderChart(snap.Candles, chartHeight))
	b.WriteString("\n")

	priceLine := fmt.Sprintf("  price %s", game.FormatMoney(snap.Price))
	if snap.Items.View.Active() {
		priceLine += "   trend: " + trendLabel(snap.Trend)
	}
	if snap.CrashActive {
		priceLine += badStyle.Render("   !! CRASH !!")
	}
	b.WriteString(priceLine + "\n")

	fmt.Fprintf(&b, "  cash %s   bet %d%%",
		game.FormatMoney(snap.Player.Balance), int(snap.Player.BetScale*100))
	if snap.Player.Position != game.DirNone {
		pl := game.FormatSignedMoney(snap.Player.Profit)
		if snap.Player.Profit >= 0 {
			pl = goodStyle.Render(pl)
		} else {
			pl = badStyle.Render(pl)
		}
		fmt.Fprintf(&b, "   %s %s @ %s  %s",
			strings.ToUpper(snap.Player.Position.String()),
			game.FormatMoney(snap.Player.Invested),
			game.FormatMoney(snap.Player.EntryPrice),
			pl,
		)
	}
	b.WriteString("\n")

	if snap.Combo.Count > 0 {
		label := fmt.Sprintf("combo x%d", snap.Combo.Count)
		if snap.Combo.Count >= 2 {
			label = feverStyle.Render(fmt.Sprintf("FEVER x%d", snap.Combo.Count))
		}
		frac := 0.0
		if snap.Combo.MaxRemaining > 0 {
			frac = snap.Combo.Remaining / snap.Combo.MaxRemaining
		}
		fmt.Fprintf(&b, "  %s %s\n", label, m.comboBar.ViewAs(frac))
	} else {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "  lv %d %s   slow:%s view:%s\n",
		snap.Progress.Level,
		m.expBar.ViewAs(float64(snap.Progress.Exp)/float64(snap.Progress.ReqExp)),
		itemLabel(snap.Items.Slow),
		itemLabel(snap.Items.View),
	)

	for _, line := range m.notes {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) viewMissionComplete(snap game.Snapshot) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("STAGE %d CLEAR!", snap.Stage)),
		"",
		fmt.Sprintf("stage profit  %s", game.FormatMoney(snap.Player.StageProfit)),
		fmt.Sprintf("cash          %s", game.FormatMoney(snap.Player.Balance)),
		"",
		titleStyle.Render("press enter for the property market"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewRealEstate(snap game.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PROPERTY MARKET") + "\n")
	if snap.RealEstate.TrendText != "" {
		b.WriteString(dimStyle.Render(snap.RealEstate.TrendText) + "\n")
	}
	fmt.Fprintf(&b, "cash %s   portfolio %s\n\n",
		game.FormatMoney(snap.Player.Balance),
		game.FormatMoney(snap.RealEstate.Valuation),
	)

	owned := map[string]int{}
	for _, id := range snap.RealEstate.Holdings {
		owned[id]++
	}
	re := game.RealEstate{Trend: snap.RealEstate.Trend}
	for i, bld := range game.Catalog {
		cursor := "  "
		line := fmt.Sprintf("%-12s %12s  rent %10s  %s",
			bld.Name,
			game.FormatMoney(re.Cost(bld)),
			game.FormatMoney(re.Rent(bld)),
			bld.Desc,
		)
		if n := owned[bld.ID]; n > 0 {
			line += fmt.Sprintf("  (owned x%d)", n)
		}
		if i == snap.RealEstate.Cursor {
			cursor = "> "
			line = selStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("d/enter buy   a sell   n next stage") + "\n")
	for _, line := range m.notes {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewResult(snap game.Snapshot) string {
	lines := []string{
		badStyle.Render("TIME'S UP"),
		"",
		fmt.Sprintf("final asset  %s", game.FormatMoney(snap.TotalAsset)),
		fmt.Sprintf("stage        %d", snap.Stage),
		fmt.Sprintf("level        %d", snap.Progress.Level),
		fmt.Sprintf("high score   %s", game.FormatMoney(snap.HighScore)),
		"",
		titleStyle.Render("press enter for the title screen"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderChart rasterizes the candle window into a fixed-height column chart.
// Rising candles are red and falling candles blue, stock-board style.
func renderChart(candles []game.Candle, height int) string {
	if len(candles) == 0 || height < 2 {
		return ""
	}
	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	row := func(v float64) int {
		r := int(float64(height-1) * (hi - v) / (hi - lo))
		if r < 0 {
			r = 0
		}
		if r > height-1 {
			r = height - 1
		}
		return r
	}

	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, len(candles))
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	for x, c := range candles {
		style := upStyle
		if c.Close < c.Open {
			style = downStyle
		}
		top, bottom := row(c.High), row(c.Low)
		bodyTop := row(math.Max(c.Open, c.Close))
		bodyBottom := row(math.Min(c.Open, c.Close))
		for y := top; y <= bottom; y++ {
			ch := "│"
			if y >= bodyTop && y <= bodyBottom {
				ch = "█"
			}
			grid[y][x] = style.Render(ch)
		}
	}

	rows := make([]string, height)
	for y := range grid {
		rows[y] = "  " + strings.Join(grid[y], "")
	}
	// Price scale on the top and bottom rows.
	rows[0] += dimStyle.Render("  " + game.FormatMoney(hi))
	rows[height-1] += dimStyle.Render("  " + game.FormatMoney(lo))
	return strings.Join(rows, "\n")
}

func trendLabel(t game.Trend) string {
	switch t {
	case game.TrendUp:
		return upStyle.Render("▲ rising")
	case game.TrendDown:
		return downStyle.Render("▼ falling")
	default:
		return dimStyle.Render("─ sideways")
	}
}

func itemLabel(it game.Item) string {
	if it.Active() {
		return goodStyle.Render(fmt.Sprintf("%d*", it.Count))
	}
	return fmt.Sprintf("%d", it.Count)
}

func formatNote(n game.Notification) string {
	switch n.Kind {
	case game.NoteTradeOpened:
		return fmt.Sprintf("opened %s %s", n.Text, game.FormatMoney(n.Amount))
	case game.NoteTradeClosed:
		if n.Amount > 0 {
			return goodStyle.Render(fmt.Sprintf("%s %s", n.Text, game.FormatSignedMoney(n.Amount)))
		}
		return badStyle.Render(fmt.Sprintf("%s %s", n.Text, game.FormatSignedMoney(n.Amount)))
	case game.NoteNews:
		return newsStyle.Render(n.Text)
	case game.NoteLevelUp:
		return feverStyle.Render(fmt.Sprintf("%s (lv %d)", n.Text, int(n.Amount)))
	case game.NoteBuildingBought:
		return goodStyle.Render(fmt.Sprintf("bought %s for %s", n.Text, game.FormatMoney(n.Amount)))
	case game.NoteBuildingSold:
		return fmt.Sprintf("sold %s for %s", n.Text, game.FormatMoney(n.Amount))
	case game.NoteRent:
		return goodStyle.Render(fmt.Sprintf("rent %s", game.FormatSignedMoney(n.Amount)))
	case game.NoteBetCycled:
		return fmt.Sprintf("bet size %d%%", int(n.Amount*100))
	case game.NoteRejected:
		return badStyle.Render(n.Text)
	case game.NoteWarning:
		return badStyle.Render(n.Text)
	case game.NoteMissionComplete:
		return titleStyle.Render(n.Text)
	case game.NoteGameOver:
		return badStyle.Render(fmt.Sprintf("%s: final %s", n.Text, game.FormatMoney(n.Amount)))
	}
	return n.Text
}
