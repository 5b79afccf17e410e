package service

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoSession indica que la petición no trae identificador de sesión.
var ErrNoSession = errors.New("missing session")

// SessionService resuelve la identidad de sesión que viaja en la cookie.
// No hay tabla de sesiones: el identificador solo existe en la cookie del
// cliente y en la columna session_id de cada comida.
type SessionService struct{}

func NewSessionService() *SessionService {
	return &SessionService{}
}

// ResolveOrCreate devuelve el id de sesión del token existente, o genera uno
// nuevo cuando el token está vacío. La comparación es byte a byte: no se
// recorta ni se normaliza el token.
func (s *SessionService) ResolveOrCreate(token string) (sessionID string, isNew bool) {
	if token != "" {
		return token, false
	}
	return uuid.NewString(), true
}

// Require exige un token de sesión presente. Nunca crea uno: solo la
// creación de comidas puede acuñar una sesión nueva.
func (s *SessionService) Require(token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}
