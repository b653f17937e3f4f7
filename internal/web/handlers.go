package web

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/quiz"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

// maxSubmitBodySize ограничивает тело POST /api/submit_result.
const maxSubmitBodySize = 64 << 10

func (s *Server) health(c *gin.Context) {
	if pinger, ok := s.repo.(Pinger); ok {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			requestLogger(c, s.log).Error("storage is unavailable", slog.String("error", err.Error()))
			c.String(http.StatusServiceUnavailable, "storage unavailable")

			return
		}
	}

	c.String(http.StatusOK, "ok")
}

// quizPage отдает страницу Web App для прохождения квиза.
func (s *Server) quizPage(c *gin.Context) {
	code := c.Param("code")

	q, err := s.repo.GetQuiz(c.Request.Context(), code)
	if errors.Is(err, storage.ErrNotFound) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Code": code})
		return
	}

	if err != nil {
		requestLogger(c, s.log).Error("failed to load quiz page",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		c.String(http.StatusInternalServerError, "Internal error")

		return
	}

	c.HTML(http.StatusOK, "quiz.html", gin.H{
		"Code":   q.Code,
		"Title":  q.Title,
		"UserID": c.Query("user_id"),
	})
}

// getQuiz отдает квиз вместе с вопросами.
func (s *Server) getQuiz(c *gin.Context) {
	code := c.Param("code")

	q, err := s.repo.GetQuiz(c.Request.Context(), code)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
		return
	}

	if err != nil {
		requestLogger(c, s.log).Error("failed to get quiz",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error"})

		return
	}

	c.JSON(http.StatusOK, newQuizResponse(q))
}

// submitResult сохраняет ответы пользователя. Результат всегда считается заново
// по сохраненным вопросам.
func (s *Server) submitResult(c *gin.Context) {
	ctx := c.Request.Context()
	log := requestLogger(c, s.log)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBodySize)

	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body is too large"})
			return
		}

		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	log = log.With(slog.Int64("user_id", req.UserID), slog.String("code", req.QuizCode))

	q, err := s.repo.GetQuiz(ctx, req.QuizCode)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
		return
	}

	if err != nil {
		log.Error("failed to get quiz", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error"})

		return
	}

	user, err := s.repo.GetUser(ctx, req.UserID)
	switch {
	case err == nil && user.IsBanned:
		log.Warn("banned user submitted result")
		c.JSON(http.StatusForbidden, errorResponse{Error: "User is banned"})

		return
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		log.Error("failed to get user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error"})

		return
	}

	score, total := quiz.Score(q.Questions, req.Answers)

	if (req.Score != nil && *req.Score != score) || (req.Total != nil && *req.Total != total) {
		log.Warn("client score mismatch",
			slog.Any("client_score", deref(req.Score)),
			slog.Any("client_total", deref(req.Total)),
			slog.Int("score", score),
			slog.Int("total", total),
		)
	}

	result := models.Result{
		UserID:   req.UserID,
		QuizCode: q.Code,
		Score:    score,
		Total:    total,
		Answers:  req.Answers,
	}

	result.ID, err = s.repo.SaveResult(ctx, result)
	if err != nil {
		log.Error("failed to save result", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error"})

		return
	}

	log.Info("result saved", slog.Int64("result_id", result.ID), slog.Int("score", score), slog.Int("total", total))

	if s.notifier != nil {
		if err = s.notifier.NotifyResult(ctx, *q, result); err != nil {
			log.Warn("failed to notify about result", slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, submitResultResponse{Status: "saved", Score: score, Total: total})
}

// webhookSecretHeader - заголовок, в котором Telegram передает secret_token.
const webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// webhook принимает обновления Telegram. Ответ всегда 200, иначе Telegram
// будет повторять доставку.
func (s *Server) webhook(c *gin.Context) {
	log := requestLogger(c, s.log)

	if !s.validWebhookSecret(c.GetHeader(webhookSecretHeader)) {
		log.Warn("webhook request with invalid secret token", slog.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

		return
	}

	var update client.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Warn("invalid webhook payload", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

		return
	}

	if s.updates != nil {
		if err := s.updates.HandleUpdate(c.Request.Context(), update); err != nil {
			log.Error("failed to handle update",
				slog.Int("update_id", update.UpdateID),
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) validWebhookSecret(got string) bool {
	if s.opts.WebhookSecret == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.WebhookSecret)) == 1
}

func deref(v *int) any {
	if v == nil {
		return nil
	}

	return *v
}
