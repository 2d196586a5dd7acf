package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/facepulse/facepulse/internal/classifier"
	"github.com/facepulse/facepulse/internal/domain"
)

type frameRequest struct {
	BlendShapes domain.Snapshot `json:"blend_shapes"`
}

type frameResponse struct {
	Emotion    domain.Emotion `json:"emotion"`
	Confidence float64        `json:"confidence"`
	Dominant   domain.Emotion `json:"dominant"`
	Changed    bool           `json:"changed"`
}

type classifyResponse struct {
	Emotion    domain.Emotion     `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

func (s *Server) handleCreateSession(c echo.Context) error {
	id := s.engine.CreateSession()
	return c.JSON(http.StatusCreated, map[string]string{"session_uuid": id.String()})
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session UUID"})
	}

	if err := s.engine.DeleteSession(id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleProcessFrame runs one detected-face frame through the pipeline:
// classify, majority-vote, change gate. The response tells the tracker what
// the overlay shows now and whether this frame changed it.
func (s *Server) handleProcessFrame(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session UUID"})
	}

	var req frameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	outcome, err := s.engine.ProcessFrame(id, req.BlendShapes)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, frameResponse{
		Emotion:    outcome.Raw.Emotion,
		Confidence: outcome.Raw.Confidence,
		Dominant:   outcome.Dominant,
		Changed:    outcome.Changed,
	})
}

// handleNoFace is the tracker's explicit "no face detected" signal. It resets
// the session's vote window and display state; not an error path.
func (s *Server) handleNoFace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session UUID"})
	}

	if err := s.engine.ReportNoFace(id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleClassify classifies a single snapshot without touching any session,
// returning the full per-emotion score breakdown alongside the winner.
func (s *Server) handleClassify(c echo.Context) error {
	var req frameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result := classifier.Classify(req.BlendShapes)

	scores := make(map[string]float64)
	for emotion, score := range classifier.Scores(req.BlendShapes) {
		scores[emotion.String()] = score
	}

	return c.JSON(http.StatusOK, classifyResponse{
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
		Scores:     scores,
	})
}
