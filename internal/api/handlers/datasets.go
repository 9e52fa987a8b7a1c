package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"walkforward-ensemble/internal/api/models"
	"walkforward-ensemble/internal/data"
)

// DatasetHandler lists CSV datasets available under the server's data dir.
type DatasetHandler struct {
	dataDir string
	logger  zerolog.Logger
}

func NewDatasetHandler(dataDir string, logger zerolog.Logger) *DatasetHandler {
	if dataDir == "" {
		dataDir = "data"
	}
	return &DatasetHandler{dataDir: dataDir, logger: logger.With().Str("handler", "datasets").Logger()}
}

func (h *DatasetHandler) DataDir() string { return h.dataDir }

// List handles GET /api/v1/datasets.
func (h *DatasetHandler) List(c *gin.Context) {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_DIR_ERROR",
				Message: err.Error(),
				Details: map[string]interface{}{"data_dir": h.dataDir},
			},
		})
		return
	}

	datasets := []models.DatasetInfo{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		path := filepath.Join(h.dataDir, e.Name())
		frame, err := data.LoadFrameCSV(path)
		if err != nil {
			h.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable dataset")
			continue
		}
		datasets = append(datasets, models.DatasetInfo{
			ID:      strings.TrimSuffix(e.Name(), ".csv"),
			Path:    path,
			Rows:    frame.Rows(),
			Columns: len(frame.Columns),
			Start:   frame.Start().Format("2006-01-02"),
			End:     frame.End().Format("2006-01-02"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}
