package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"enumka/internal/enum"

	"github.com/gin-gonic/gin"
)

type reinitReq struct {
	Type string `json:"type"` // пустой = пересобрать все справочники
}

// POST /api/admin/reinitialize — пересборка кэша после внешних изменений
// хранилища (фикстуры, ручные правки). Один тип или веером все.
func AdminReinitializeHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reinitReq
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		name := strings.TrimSpace(req.Type)
		if name == "" {
			if err := storage.Dir.ReinitializeAll(c.Request.Context()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "reinitialize failed", "code": codeForErr(err), "details": err.Error(),
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"ok": true, "types": len(storage.Dir.Types())})
			return
		}

		t, ok := storage.Dir.Lookup(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		if err := t.Reinitialize(c.Request.Context()); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, enum.ErrUninitialized) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{
				"error": "reinitialize failed", "code": codeForErr(err), "details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "type": t.Name(), "build_id": t.BuildID()})
	}
}
