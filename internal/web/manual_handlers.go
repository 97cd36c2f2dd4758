package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corops/cordash/internal/domain"
)

// handleManualEntryPage lists the manual entries and, with ?edit=<id>,
// prefills the form with an existing entry for resubmission.
func (a *App) handleManualEntryPage(c *gin.Context) {
	client := clientFrom(c)
	ctrl := controllerFrom(c)

	platform := domain.Platform(c.Query("platform"))
	if platform != "" && !platform.Valid() {
		platform = ""
	}

	entries, err := client.ManualEntries(c.Request.Context(), platform)
	if err != nil {
		if sessionExpired(err) {
			c.Header("Cache-Control", "no-store")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.HTML(http.StatusBadGateway, "manual.tmpl", gin.H{
			"User":      ctrl.User(),
			"Platforms": domain.ManualEntryPlatforms(),
			"Error":     "Não foi possível carregar as métricas manuais",
		})
		return
	}

	data := gin.H{
		"User":      ctrl.User(),
		"Platforms": domain.ManualEntryPlatforms(),
		"Filter":    platform,
		"Entries":   entries,
	}
	if f := takeFlash(c); f != nil {
		data["Flash"] = f
	}
	if editID, err := strconv.ParseInt(c.Query("edit"), 10, 64); err == nil {
		for i := range entries {
			if entries[i].ID == editID {
				data["Edit"] = entries[i]
				break
			}
		}
	}

	c.HTML(http.StatusOK, "manual.tmpl", data)
}

func (a *App) handleManualEntryCreate(c *gin.Context) {
	input, ok := a.manualEntryForm(c, 0)
	if !ok {
		return
	}

	client := clientFrom(c)
	if _, err := client.CreateManualEntry(c.Request.Context(), input); err != nil {
		a.manualEntryFailure(c, err, "Erro ao salvar métrica")
		return
	}

	setFlash(c, "success", "Métrica registrada com sucesso")
	c.Redirect(http.StatusSeeOther, "/manual-entry")
}

func (a *App) handleManualEntryUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Redirect(http.StatusSeeOther, "/manual-entry")
		return
	}

	input, ok := a.manualEntryForm(c, id)
	if !ok {
		return
	}

	client := clientFrom(c)
	if _, err := client.UpdateManualEntry(c.Request.Context(), id, input); err != nil {
		a.manualEntryFailure(c, err, "Erro ao atualizar métrica")
		return
	}

	setFlash(c, "success", "Métrica atualizada com sucesso")
	c.Redirect(http.StatusSeeOther, "/manual-entry")
}

func (a *App) handleManualEntryDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Redirect(http.StatusSeeOther, "/manual-entry")
		return
	}

	client := clientFrom(c)
	if err := client.DeleteManualEntry(c.Request.Context(), id); err != nil {
		a.manualEntryFailure(c, err, "Erro ao excluir métrica")
		return
	}

	setFlash(c, "success", "Métrica excluída")
	c.Redirect(http.StatusSeeOther, "/manual-entry")
}

// manualEntryForm parses and validates the submitted form. On a validation
// failure it re-renders the form with field errors and reports ok=false.
func (a *App) manualEntryForm(c *gin.Context, id int64) (domain.ManualEntryInput, bool) {
	input := domain.ManualEntryInput{
		Platform:   domain.Platform(c.PostForm("platform")),
		MetricName: strings.TrimSpace(c.PostForm("metric_name")),
		Notes:      strings.TrimSpace(c.PostForm("notes")),
		EnteredBy:  strings.TrimSpace(c.PostForm("entered_by")),
	}
	// Unparsable values stay zero and fall to Validate's positive check.
	if value, err := strconv.ParseInt(strings.TrimSpace(c.PostForm("metric_value")), 10, 64); err == nil {
		input.MetricValue = value
	}

	if err := input.Validate(); err != nil {
		ctrl := controllerFrom(c)
		data := gin.H{
			"User":      ctrl.User(),
			"Platforms": domain.ManualEntryPlatforms(),
			"Input":     input,
			"Error":     "Verifique os campos destacados",
		}
		if id != 0 {
			data["EditID"] = id
		}
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Details != nil {
			data["FieldErrors"] = domainErr.Details
		}
		c.HTML(http.StatusUnprocessableEntity, "manual.tmpl", data)
		return input, false
	}
	return input, true
}

func (a *App) manualEntryFailure(c *gin.Context, err error, message string) {
	if sessionExpired(err) {
		c.Header("Cache-Control", "no-store")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	setFlash(c, "error", message)
	c.Redirect(http.StatusSeeOther, "/manual-entry")
}
