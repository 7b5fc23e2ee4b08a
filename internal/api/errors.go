package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// abortWithError returns a JSON error response and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondServiceError is the single boundary translating service error
// kinds to HTTP statuses and client-facing messages. Anything not
// recognized is logged and surfaced as a generic 500 so internals never
// leak to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusBadRequest, "Email já cadastrado")
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, "Email ou senha incorretos")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, "Usuário não encontrado")
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, "Treino não encontrado")
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, "Exercício não encontrado")
	case errors.Is(err, service.ErrNoWorkoutToday):
		abortWithError(c, http.StatusNotFound, "Nenhum treino encontrado para hoje")
	case errors.Is(err, service.ErrCompleteSetContention):
		abortWithError(c, http.StatusConflict, "Conflito ao atualizar o treino, tente novamente")
	case errors.Is(err, service.ErrInvalidAvatarType):
		abortWithError(c, http.StatusBadRequest, "Tipo de imagem inválido")
	case errors.Is(err, service.ErrAvatarKeyMismatch):
		abortWithError(c, http.StatusBadRequest, "Chave de objeto inválida")
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, http.StatusInternalServerError, "Erro interno do servidor")
	}
}
