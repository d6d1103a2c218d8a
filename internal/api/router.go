// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter собирает маршруты (отдельно от запуска — для httptest).
func NewRouter(storage *Storage) *gin.Engine {
	r := gin.Default()

	apiGroup := r.Group("/api")
	{
		// справочники
		apiGroup.GET("/enums", EnumListHandler(storage))
		apiGroup.GET("/enums/:type", EnumMetaHandler(storage))
		apiGroup.GET("/enums/:type/values", EnumValuesHandler(storage))
		apiGroup.GET("/enums/:type/all", EnumAllValuesHandler(storage))
		apiGroup.GET("/enums/:type/by-name/:name", EnumByNameHandler(storage))
		apiGroup.GET("/enums/:type/by-ordinal/:ordinal", EnumByOrdinalHandler(storage))

		// админ
		apiGroup.POST("/admin/reinitialize", AdminReinitializeHandler(storage))

		// записи хозяев
		apiGroup.POST("/records/:entity", RecordCreateHandler(storage))
		apiGroup.GET("/records/:entity", RecordListHandler(storage))
		apiGroup.GET("/records/:entity/:id", RecordGetHandler(storage))
	}

	return r
}

func RunServer(addr string, storage *Storage) {
	r := NewRouter(storage)
	_ = r.Run(addr)
}
