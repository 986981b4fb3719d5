package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/internal/present"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

//go:embed templates/board.html
var templatesFS embed.FS

var boardTemplate = template.Must(template.ParseFS(templatesFS, "templates/board.html"))

type boardView struct {
	RefreshSeconds int
	Disconnected   bool
	FromCache      bool
	Updated        string
	Funnels        []funnelTotalView
	GrandTotal     string
	Columns        []columnView
}

type funnelTotalView struct {
	Name      string
	ShortName string
	Total     string
}

type columnView struct {
	Name      string
	Photo     string
	DealCount int
	Total     string
	WonCount  int
	WonValue  string
	LostCount int
	LostValue string
	Cards     []cardView
}

type cardView struct {
	Company string
	Badge   string
	Amount  string
	Ago     string
}

type boardHandlers struct {
	DashboardSvc DashboardService
	Catalog      *models.Catalog
	Formatter    *present.Formatter
	Refresh      time.Duration
	clockNow     func() time.Time
}

func NewBoardHandlers(deps *Deps) *boardHandlers {
	return &boardHandlers{
		DashboardSvc: deps.DashboardSvc,
		Catalog:      deps.Catalog,
		Formatter:    deps.Formatter,
		Refresh:      deps.PollInterval,
		clockNow:     time.Now,
	}
}

// GetBoard renders the TV board. A failed cycle renders only the
// disconnected state; the page keeps refreshing until data comes back.
func (h *boardHandlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	view := boardView{RefreshSeconds: int(h.Refresh / time.Second)}
	if view.RefreshSeconds < 1 {
		view.RefreshSeconds = 30
	}

	status := http.StatusOK
	snap, fromCache, err := h.DashboardSvc.GetDashboard(r.Context())
	if err != nil {
		status, _ = response.Classify(err)
		logger.FromContext(r.Context()).Warn("board rendered disconnected", "error", err, "status", status)
		view.Disconnected = true
	} else {
		h.fill(&view, snap, fromCache)
	}

	var buf bytes.Buffer
	if err := boardTemplate.Execute(&buf, view); err != nil {
		logger.FromContext(r.Context()).Error("failed to render board", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *boardHandlers) fill(view *boardView, snap dto.DashboardSnapshot, fromCache bool) {
	f := h.Formatter
	now := h.clockNow()

	view.FromCache = fromCache
	view.Updated = f.Clock(snap.LastUpdated)
	view.GrandTotal = f.Currency(snap.GrandTotal)
	for _, fn := range snap.Funnels {
		view.Funnels = append(view.Funnels, funnelTotalView{
			Name:      fn.Name,
			ShortName: fn.ShortName,
			Total:     f.Currency(snap.FunnelTotals[fn.StageID]),
		})
	}

	for _, sp := range snap.Salespeople {
		col := columnView{
			Name:      sp.Name,
			Photo:     sp.Photo,
			DealCount: len(sp.Deals),
			Total:     f.Currency(sp.GrandTotal),
			WonCount:  sp.WonCount,
			WonValue:  f.Currency(sp.WonValue),
			LostCount: sp.LostCount,
			LostValue: f.Currency(sp.LostValue),
		}
		for _, d := range newestFirst(sp.Deals) {
			badge := ""
			if fn, ok := h.Catalog.FunnelByStage(d.StageID); ok {
				badge = fn.ShortName
			}
			company := d.CompanyTitle
			if company == "" {
				company = d.Title
			}
			col.Cards = append(col.Cards, cardView{
				Company: f.CleanTitle(company),
				Badge:   badge,
				Amount:  f.Currency(d.Opportunity),
				Ago:     f.Relative(d.LastUpdated, now),
			})
		}
		view.Columns = append(view.Columns, col)
	}
}

func newestFirst(deals []models.Deal) []models.Deal {
	out := make([]models.Deal, len(deals))
	copy(out, deals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out
}
