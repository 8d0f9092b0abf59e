package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const githubTokenCookie = "github_access_token"

// GitHubHandler bridges the GitHub OAuth flow: it exchanges an authorization
// code for an access token held in an HTTP-only cookie, and proxies the
// repository listing for the authenticated user. No retry, no token refresh,
// no persistence beyond the single cookie.
type GitHubHandler struct {
	clientID     string
	clientSecret string
	redirectURL  string
	env          string

	// Overridable for tests
	TokenURL   string
	APIBaseURL string

	httpClient *http.Client
}

// NewGitHubHandler creates a new GitHubHandler
func NewGitHubHandler(clientID, clientSecret, redirectURL, env string) *GitHubHandler {
	return &GitHubHandler{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		env:          env,
		TokenURL:     "https://github.com/login/oauth/access_token",
		APIBaseURL:   "https://api.github.com",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// RegisterGitHubRoutes registers the OAuth bridge routes
func (h *GitHubHandler) RegisterGitHubRoutes(g *echo.Group) {
	g.GET("/callback", h.Callback)
	g.GET("/repositories", h.Repositories)
}

// Callback exchanges the authorization code for an access token, stores it in
// an HTTP-only cookie and redirects to the profile page named by state.
func (h *GitHubHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No code provided"})
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     h.clientID,
		"client_secret": h.clientSecret,
		"code":          code,
		"redirect_uri":  h.redirectURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, h.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("Error exchanging authorization code for access token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	defer resp.Body.Close()

	var tokenData struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		log.Printf("Error decoding token response: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	if tokenData.AccessToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to obtain access token"})
	}

	c.SetCookie(&http.Cookie{
		Name:     githubTokenCookie,
		Value:    tokenData.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.env == "production",
	})

	protocol := c.Request().Header.Get("X-Forwarded-Proto")
	if protocol == "" {
		protocol = "http"
	}
	redirectWithToken := fmt.Sprintf("%s://%s/profile/%s?access_token=%s", protocol, c.Request().Host, state, tokenData.AccessToken)

	return c.Redirect(http.StatusFound, redirectWithToken)
}

// Repositories proxies GitHub's repository listing for the authenticated
// user, with page/limit pagination.
func (h *GitHubHandler) Repositories(c echo.Context) error {
	cookie, err := c.Cookie(githubTokenCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token is missing"})
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 4
	}

	url := fmt.Sprintf("%s/user/repos?per_page=%d&page=%d", h.APIBaseURL, limit, page)
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, url, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("Error fetching repositories: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var upstreamErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&upstreamErr); err != nil {
			upstreamErr.Message = "GitHub request failed"
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": upstreamErr.Message})
	}

	var repositories []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&repositories); err != nil {
		log.Printf("Error decoding repositories response: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"repos": repositories,
		"page":  page,
		"limit": limit,
	})
}
