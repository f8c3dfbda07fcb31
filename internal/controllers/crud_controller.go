package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/exam_backend/internal/patch"
	"github.com/zaqqye/exam_backend/internal/repository"
	"github.com/zaqqye/exam_backend/internal/schemas"
)

// creator is a pointer to a create payload that can build the entity.
type creator[M any, C any] interface {
	*C
	Model() *M
}

// CRUDController serves the five access contract operations for one entity.
type CRUDController[M any] struct {
	Repo   *repository.Repository[M]
	Entity string
	Log    *zap.Logger

	// OnCreate runs after a successful create with the stored row.
	OnCreate func(*M)

	decodeCreate func(c *gin.Context) (*M, error)
	decodeUpdate func(c *gin.Context) (map[string]interface{}, error)
}

// NewCRUDController binds entity M to its create payload C and update
// payload U. entity is the display name used in "<entity> not found".
func NewCRUDController[M any, C any, U any, PC creator[M, C]](repo *repository.Repository[M], entity string, log *zap.Logger) *CRUDController[M] {
	return &CRUDController[M]{
		Repo:   repo,
		Entity: entity,
		Log:    log,
		decodeCreate: func(c *gin.Context) (*M, error) {
			var in C
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			return PC(&in).Model(), nil
		},
		decodeUpdate: func(c *gin.Context) (map[string]interface{}, error) {
			var in U
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			return patch.Changes(&in)
		},
	}
}

func (ctl *CRUDController[M]) Register(rg *gin.RouterGroup) {
	rg.GET("/", ctl.List)
	rg.POST("/", ctl.Create)
	rg.GET("/:id", ctl.Get)
	rg.PUT("/:id", ctl.Update)
	rg.DELETE("/:id", ctl.Delete)
}

func (ctl *CRUDController[M]) List(c *gin.Context) {
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}
	items, err := ctl.Repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *CRUDController[M]) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ctl.Repo.Get(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *CRUDController[M]) Create(c *gin.Context) {
	in, err := ctl.decodeCreate(c)
	if err != nil {
		validationFailed(c, err)
		return
	}
	item, err := ctl.Repo.Create(c.Request.Context(), in)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if ctl.OnCreate != nil {
		ctl.OnCreate(item)
	}
	c.JSON(http.StatusCreated, item)
}

func (ctl *CRUDController[M]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	changes, err := ctl.decodeUpdate(c)
	if err != nil {
		validationFailed(c, err)
		return
	}
	item, err := ctl.Repo.Update(c.Request.Context(), id, changes)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete answers with the row as it was before removal.
func (ctl *CRUDController[M]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ctl.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *CRUDController[M]) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": ctl.Entity + " not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"detail": ctl.Entity + " conflicts with an existing record"})
	case errors.Is(err, repository.ErrForeignKey):
		c.JSON(http.StatusConflict, gin.H{"detail": ctl.Entity + " references a record that does not exist"})
	default:
		internalError(c, ctl.Log, err)
	}
}

func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": schemas.Details(err)})
}

func internalError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
}
