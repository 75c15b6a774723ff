package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/boardforge/taskboard/internal/events"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/middleware/authgate"
	"github.com/boardforge/taskboard/internal/models"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/service/search"
	"github.com/boardforge/taskboard/internal/util"
)

type BoardHandler struct {
	Boards   *repo.BoardRepo
	Users    *repo.UserRepo
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *BoardHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "board_create")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	username, _ := c.Get(authgate.CtxUsername).(string)
	owner, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		return response.NewError(response.UserNotFound)
	}

	board := &models.Board{
		OwnerID:     owner.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.Boards.Create(ctx, board); err != nil {
		l.Error("board create failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create board")
	}

	if h.ES != nil {
		if err := search.Index(ctx, h.ES, h.ESIndex, *board); err != nil {
			l.Error("board index failed", "board_id", board.ID, "error", err)
		}
	}

	publish(c, h.Producer, events.TopicBoardEvents, fmt.Sprint(board.ID), map[string]any{
		"type":     "board_created",
		"board_id": board.ID,
		"owner_id": owner.ID,
	})

	return response.SuccessData(c, http.StatusCreated, board)
}

func (h *BoardHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid board id")
	}

	board, err := h.Boards.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "board not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load board")
	}
	return response.SuccessData(c, http.StatusOK, board)
}

func (h *BoardHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Boards.List(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list boards")
	}

	return response.SuccessData(c, http.StatusOK, map[string]any{
		"total":  total,
		"boards": items,
	})
}

func (h *BoardHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, boards, err := search.Search(c.Request().Context(), h.ES, h.ESIndex, q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return response.SuccessData(c, http.StatusOK, map[string]any{
		"total":  total,
		"boards": boards,
	})
}
