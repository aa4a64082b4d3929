package adminapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

type gamePayload struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title" validate:"required,min=1,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	Img      string  `json:"img"`
	HoverImg string  `json:"hover_img"`
}

func registerGameRoutes() {
	webserver.ApiGET("/store/games", listGames)
	webserver.ApiPOST("/store/games", saveGame)
	webserver.ApiDELETE("/store/games/:id", deleteGame)
	webserver.ApiPOST("/store/images", uploadImage)
}

func listGames(c echo.Context) error {
	appx := webserver.App()
	games, err := appx.CatalogStore().List(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}

	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		filtered := games[:0]
		for _, g := range games {
			if strings.Contains(strings.ToLower(g.Title), q) {
				filtered = append(filtered, g)
			}
		}
		games = filtered
	}

	page, pageSize := parsePagination(c)
	total := int64(len(games))
	start := (page - 1) * pageSize
	if start > len(games) {
		start = len(games)
	}
	end := start + pageSize
	if end > len(games) {
		end = len(games)
	}
	return paged(c, games[start:end], total, page, pageSize)
}

// saveGame creates or updates a catalog entry. Image fields left empty on an
// update keep the stored images.
func saveGame(c echo.Context) error {
	var payload gamePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse game", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid game", err.Error())
	}

	appx := webserver.App()
	game, err := appx.AdminService().SaveGame(c.Request().Context(), shop.GameInput{
		ID:       payload.ID,
		Title:    strings.TrimSpace(payload.Title),
		Price:    payload.Price,
		Img:      strings.TrimSpace(payload.Img),
		HoverImg: strings.TrimSpace(payload.HoverImg),
	})
	if err != nil {
		return failErr(c, err)
	}

	appx.RankingCache().Invalidate()
	logOpr(c, "SaveGame", fmt.Sprintf("game %d (%s)", game.ID, game.Title))
	return ok(c, game)
}

func deleteGame(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid game ID", nil)
	}

	appx := webserver.App()
	if err := appx.AdminService().DeleteGame(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}

	appx.RankingCache().Invalidate()
	logOpr(c, "DeleteGame", fmt.Sprintf("game %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

// uploadImage pushes the submitted file to the image host and returns the
// hosted URL for the game form.
func uploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Image file is required", err.Error())
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read image", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read image", err.Error())
	}

	url, err := webserver.App().ImageClient().Upload(c.Request().Context(), data)
	if err != nil {
		return fail(c, http.StatusBadGateway, "IMAGE_UPLOAD_FAILED", "Image host rejected the upload", err.Error())
	}
	return ok(c, map[string]string{"url": url})
}
