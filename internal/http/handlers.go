package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"friendbook/internal/domain"
	"friendbook/internal/service"
	"friendbook/internal/session"
)

const (
	ctxSessionKey = "friendbook.session"
	ctxUserKey    = "friendbook.user"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	feed     service.FeedService
	chat     service.ChatService
	sessions *session.Manager
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, feed service.FeedService, chat service.ChatService, sessions *session.Manager, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		feed:     feed,
		chat:     chat,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(templates())
	router.Use(h.loadSession)

	router.GET("/", h.home)
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)

	authed := router.Group("/", h.requireLogin)
	{
		authed.GET("/logout", h.logout)
		authed.GET("/dashboard", h.dashboard)
		authed.POST("/dashboard", h.createPost)
		authed.GET("/chat", h.chatRoom)
		authed.POST("/chat", h.sendMessage)
		authed.GET("/profile", h.ownProfile)
		authed.GET("/profile/:id", h.profileByID)
		authed.GET("/settings", h.settingsForm)
		authed.POST("/settings", h.updateSettings)
	}
}

// loadSession resolves the session cookie and stashes the session plus the
// authenticated user (if any) into the request-scoped gin context. Handlers
// never reach for global state.
func (h *Handler) loadSession(c *gin.Context) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		c.Next()
		return
	}

	sess, err := h.sessions.Lookup(c.Request.Context(), cookie)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			h.logger.Warnf("session lookup: %v", err)
		}
		c.Next()
		return
	}
	c.Set(ctxSessionKey, sess)

	if sess.UserID > 0 {
		user, err := h.users.GetByID(c.Request.Context(), sess.UserID)
		if err == nil {
			c.Set(ctxUserKey, user)
		} else if !errors.Is(err, service.ErrUserNotFound) {
			h.logger.Warnf("load session user: %v", err)
		}
	}

	c.Next()
}

// requireLogin is the access gate: anonymous requests to protected routes are
// bounced to the login page with a flash.
func (h *Handler) requireLogin(c *gin.Context) {
	if currentUser(c) == nil {
		h.flashRedirect(c, domain.FlashWarning, "Please log in first.", "/login")
		c.Abort()
		return
	}
	c.Next()
}

func currentSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		return v.(*domain.Session)
	}
	return nil
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		return v.(*domain.User)
	}
	return nil
}

// ensureSession returns the request's session, starting an anonymous one (and
// setting its cookie) when the browser has none yet. Flash messages must
// survive a redirect, so they need a session row even before login.
func (h *Handler) ensureSession(c *gin.Context) (*domain.Session, error) {
	if sess := currentSession(c); sess != nil {
		return sess, nil
	}

	sess, signed, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		return nil, err
	}
	h.setSessionCookie(c, signed, int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds()))
	c.Set(ctxSessionKey, sess)
	return sess, nil
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(session.CookieName, value, maxAge, "/", "", false, true)
}

func (h *Handler) flashRedirect(c *gin.Context, category, message, location string) {
	sess, err := h.ensureSession(c)
	if err != nil {
		h.logger.Errorf("ensure session: %v", err)
	} else if err := h.sessions.Flash(c.Request.Context(), sess.Token, message, category); err != nil {
		h.logger.Errorf("set flash: %v", err)
	}
	c.Redirect(http.StatusFound, location)
}

// render draws a page with the shared layout data. When the caller did not
// supply an inline flash, any flash pending on the session is popped.
func (h *Handler) render(c *gin.Context, code int, name, title, active string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Active"] = active
	data["User"] = currentUser(c)

	if _, ok := data["Flash"]; !ok {
		data["Flash"] = nil
		if sess := currentSession(c); sess != nil {
			flash, err := h.sessions.PopFlash(c.Request.Context(), sess.Token)
			if err != nil {
				h.logger.Warnf("pop flash: %v", err)
			} else if flash != nil {
				data["Flash"] = flash
			}
		}
	}

	c.HTML(code, name, data)
}

func (h *Handler) renderError(c *gin.Context, code int, title, detail string) {
	h.render(c, code, "error", title, "", gin.H{"Detail": detail})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Errorf("request %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.renderError(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

func (h *Handler) home(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) registerForm(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "register", "Register", "register", nil)
}

func (h *Handler) register(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	_, err := h.users.Register(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
		c.PostForm("confirm_password"),
		c.PostForm("about"),
	)
	if err != nil {
		category, message, known := registerFailure(err)
		if !known {
			h.serverError(c, err)
			return
		}
		h.flashRedirect(c, category, message, "/register")
		return
	}

	h.flashRedirect(c, domain.FlashSuccess, "Registration successful. Please log in.", "/login")
}

func registerFailure(err error) (category, message string, known bool) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return domain.FlashWarning, "Please fill in all required fields.", true
	case errors.Is(err, service.ErrPasswordMismatch):
		return domain.FlashDanger, "Passwords do not match.", true
	case errors.Is(err, service.ErrUsernameTaken):
		return domain.FlashDanger, "Username already taken.", true
	case errors.Is(err, service.ErrUsernameTooLong):
		return domain.FlashWarning, "Username must be at most 80 characters.", true
	case errors.Is(err, service.ErrAboutTooLong):
		return domain.FlashWarning, "About text must be at most 300 characters.", true
	}
	return "", "", false
}

func (h *Handler) loginForm(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login", "Login", "login", nil)
}

func (h *Handler) login(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// one generic message, never revealing which half failed
			h.flashRedirect(c, domain.FlashDanger, "Invalid username or password.", "/login")
			return
		}
		h.serverError(c, err)
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if err := h.sessions.Login(c.Request.Context(), sess.Token, user.ID); err != nil {
		h.serverError(c, err)
		return
	}

	h.flashRedirect(c, domain.FlashSuccess, "Logged in successfully!", "/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := h.sessions.Destroy(c.Request.Context(), sess.Token); err != nil {
			h.logger.Warnf("destroy session: %v", err)
		}
	}

	// the old row is gone; a fresh anonymous session carries the goodbye
	// flash and its cookie replaces the dead one
	removeContextKey(c, ctxSessionKey)
	removeContextKey(c, ctxUserKey)

	h.flashRedirect(c, domain.FlashInfo, "You have been logged out.", "/login")
}

func (h *Handler) dashboard(c *gin.Context) {
	h.renderDashboard(c, nil)
}

func (h *Handler) createPost(c *gin.Context) {
	user := currentUser(c)

	_, err := h.feed.CreatePost(c.Request.Context(), user.ID, c.PostForm("subject"), c.PostForm("body"))
	if err != nil {
		var message string
		switch {
		case errors.Is(err, service.ErrEmptyPost):
			message = "Subject and body cannot be empty."
		case errors.Is(err, service.ErrSubjectTooLong):
			message = "Subject must be at most 150 characters."
		case errors.Is(err, service.ErrBodyTooLong):
			message = "Body must be at most 2000 characters."
		default:
			h.serverError(c, err)
			return
		}
		// validation failures re-render the page with an inline notice
		h.renderDashboard(c, &domain.Flash{Message: message, Category: domain.FlashWarning})
		return
	}

	h.flashRedirect(c, domain.FlashSuccess, "Post created successfully!", "/dashboard")
}

type postView struct {
	Subject    string
	Body       string
	AuthorID   int64
	AuthorName string
}

func (h *Handler) renderDashboard(c *gin.Context, inlineFlash *domain.Flash) {
	posts, err := h.feed.ListPosts(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]postView, len(posts))
	for i, post := range posts {
		views[i] = postView{
			Subject:    post.Subject,
			Body:       post.Body,
			AuthorID:   post.UserID,
			AuthorName: post.AuthorName,
		}
	}

	data := gin.H{"Posts": views}
	if inlineFlash != nil {
		data["Flash"] = inlineFlash
	}
	h.render(c, http.StatusOK, "dashboard", "Dashboard", "dashboard", data)
}

type messageView struct {
	Content    string
	AuthorName string
	Mine       bool
}

func (h *Handler) chatRoom(c *gin.Context) {
	h.renderChat(c, nil)
}

func (h *Handler) sendMessage(c *gin.Context) {
	user := currentUser(c)

	_, err := h.chat.SendMessage(c.Request.Context(), user.ID, c.PostForm("content"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			// blank submissions are silently dropped
			h.renderChat(c, nil)
		case errors.Is(err, service.ErrMessageTooLong):
			h.renderChat(c, &domain.Flash{Message: "Message must be at most 500 characters.", Category: domain.FlashWarning})
		default:
			h.serverError(c, err)
		}
		return
	}

	h.flashRedirect(c, domain.FlashSuccess, "Message sent!", "/chat")
}

func (h *Handler) renderChat(c *gin.Context, inlineFlash *domain.Flash) {
	user := currentUser(c)

	msgs, err := h.chat.ListMessages(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	// ownership is decided here, not in the template
	views := make([]messageView, len(msgs))
	for i, msg := range msgs {
		views[i] = messageView{
			Content:    msg.Content,
			AuthorName: msg.AuthorName,
			Mine:       msg.UserID == user.ID,
		}
	}

	data := gin.H{"Messages": views}
	if inlineFlash != nil {
		data["Flash"] = inlineFlash
	}
	h.render(c, http.StatusOK, "chat", "Chat", "chat", data)
}

func (h *Handler) ownProfile(c *gin.Context) {
	h.renderProfile(c, currentUser(c))
}

func (h *Handler) profileByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(c, http.StatusNotFound, "User not found", "There is no user with that id.")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.renderError(c, http.StatusNotFound, "User not found", "There is no user with that id.")
			return
		}
		h.serverError(c, err)
		return
	}

	h.renderProfile(c, user)
}

func (h *Handler) renderProfile(c *gin.Context, user *domain.User) {
	about := user.About
	if about == "" {
		about = "No information provided."
	}
	h.render(c, http.StatusOK, "profile", "Profile", "profile", gin.H{
		"Profile": gin.H{
			"Username": user.Username,
			"About":    about,
		},
	})
}

func (h *Handler) settingsForm(c *gin.Context) {
	user := currentUser(c)
	h.render(c, http.StatusOK, "settings", "Settings", "settings", gin.H{
		"Settings": gin.H{
			"Username": user.Username,
			"About":    user.About,
		},
	})
}

func (h *Handler) updateSettings(c *gin.Context) {
	user := currentUser(c)

	_, err := h.users.UpdateSettings(c.Request.Context(), user.ID, service.SettingsUpdate{
		Username:        c.PostForm("username"),
		About:           c.PostForm("about"),
		CurrentPassword: c.PostForm("current_password"),
		NewPassword:     c.PostForm("new_password"),
		ConfirmPassword: c.PostForm("confirm_new_password"),
	})
	if err != nil {
		category, message, known := settingsFailure(err)
		if !known {
			h.serverError(c, err)
			return
		}
		h.flashRedirect(c, category, message, "/settings")
		return
	}

	h.flashRedirect(c, domain.FlashSuccess, "Settings updated successfully.", "/settings")
}

func settingsFailure(err error) (category, message string, known bool) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return domain.FlashDanger, "Username already taken.", true
	case errors.Is(err, service.ErrUsernameTooLong):
		return domain.FlashWarning, "Username must be at most 80 characters.", true
	case errors.Is(err, service.ErrAboutTooLong):
		return domain.FlashWarning, "About text must be at most 300 characters.", true
	case errors.Is(err, service.ErrCurrentPasswordRequired):
		return domain.FlashWarning, "Please enter your current password to change password.", true
	case errors.Is(err, service.ErrCurrentPasswordWrong):
		return domain.FlashDanger, "Current password is incorrect.", true
	case errors.Is(err, service.ErrNewPasswordMismatch):
		return domain.FlashDanger, "New passwords do not match.", true
	case errors.Is(err, service.ErrPasswordTooShort):
		return domain.FlashWarning, "New password must be at least 6 characters.", true
	}
	return "", "", false
}

func removeContextKey(c *gin.Context, key string) {
	if c.Keys != nil {
		delete(c.Keys, key)
	}
}
