package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/linebreak"
	"github.com/hpungsan/solefit/internal/ops"
)

// maxFormBytes bounds quiz form submissions.
const maxFormBytes = 64 << 10

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	cat      *catalog.Catalog
	bank     *catalog.QuestionBank
	cache    *linebreak.Cache
	limiter  *RateLimiter
	renderer *Renderer
}

// HandleQuiz handles GET /quiz: the question form.
func (h *Handlers) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "quiz", QuizPageData{
		PageData:  h.renderer.page("Find your shoe", "quiz"),
		Questions: ops.Questions(h.bank).Questions,
		Brands:    h.cat.Brands(),
	})
}

// HandleSubmit handles POST /quiz: compute, save and redirect to the result.
// Each question's form field carries the selected option id; unanswered
// questions are skipped.
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	var answers []catalog.Answer
	for _, q := range h.bank.Questions {
		if opt := strings.TrimSpace(r.PostFormValue(q.ID)); opt != "" {
			answers = append(answers, catalog.Answer{QuestionID: q.ID, OptionID: opt})
		}
	}

	out, err := ops.Recommend(r.Context(), h.db, h.cat, h.bank, h.cfg, ops.RecommendInput{
		Answers:         answers,
		BrandPreference: r.PostFormValue("brand"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	location := "/results/" + out.ID

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Location", location)
		renderJSON(w, http.StatusCreated, out)
		return
	}

	http.Redirect(w, r, location, http.StatusSeeOther)
}

// HandleResults handles GET /results: saved recommendations, newest first.
func (h *Handlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "results", ResultsPageData{
		PageData:   h.renderer.page("Your results", "results"),
		Items:      result.Items,
		Pagination: result.Pagination,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleResult handles GET /results/{id}. The headline and reasoning are
// laid out with line-break plans; the primary item's description is
// markdown.
func (h *Handlers) HandleResult(w http.ResponseWriter, r *http.Request) {
	rec, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, rec)
		return
	}

	data := ResultPageData{
		PageData: h.renderer.page(rec.Headline, "results"),
		Record:   rec,
		Headline: h.plan(rec.Headline),
	}
	if res := rec.Result; res != nil {
		data.Reasoning = h.plan(res.Reasoning)
		if res.Primary != nil {
			data.Description = renderMarkdown(res.Primary.Description)
		}
	}

	h.renderer.renderPage(w, r, "result", data)
}

// plan lays out display text, falling back to a single line when the text
// cannot be planned (empty or over the size limit).
func (h *Handlers) plan(text string) linebreak.Result {
	out, err := ops.LineBreak(h.cache, h.cfg, ops.LineBreakInput{Text: text})
	if err != nil {
		lines := []string{}
		if text != "" {
			lines = []string{text}
		}
		return linebreak.Result{MobileLines: lines, DesktopLines: lines, SameAcrossBreakpoints: true}
	}
	return out.Result
}

// HandleDelete handles DELETE /results/{id}: soft-delete a saved result.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/results")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// HandleCatalog handles GET /catalog with optional category and brand filters.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	brand := r.URL.Query().Get("brand")

	result, err := ops.Catalog(h.cat, ops.CatalogInput{Category: category, Brand: brand})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "catalog", CatalogPageData{
		PageData:   h.renderer.page("Catalog", "catalog"),
		Items:      result.Items,
		Brands:     h.cat.Brands(),
		Categories: catalog.Categories(),
		Category:   category,
		Brand:      brand,
	})
}

// HandleLineBreak handles GET /api/linebreak: a JSON line-break plan.
func (h *Handlers) HandleLineBreak(w http.ResponseWriter, r *http.Request) {
	input := ops.LineBreakInput{Text: r.URL.Query().Get("text")}

	var err error
	if input.MobileTarget, err = parseFloatParam(r, "mobile"); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if input.DesktopTarget, err = parseFloatParam(r, "desktop"); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if s := r.URL.Query().Get("min_tokens"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("min_tokens must be an integer"))
			return
		}
		input.MinTokenCount = n
	}

	result, err := ops.LineBreak(h.cache, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseFloatParam parses an optional float query parameter; absent means 0.
func parseFloatParam(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be a number")
	}
	return v, nil
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
