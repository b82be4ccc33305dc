package services

import (
	"fmt"
	"strings"
)

// ValidationError blocks a task before any model call is enqueued. Nothing is
// mutated when one is returned.
type ValidationError struct {
	Message       string
	MissingFields []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.MissingFields, ", "))
	}
	return e.Message
}

// ServiceError is a transport failure or non-success response from the
// generative service. It carries the service's own message when one exists.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "falha na comunicação com o serviço de IA"
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ParseError means the model's output could not be turned into a complete
// structured result. Partial results are never stored.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "resposta da IA em formato inválido: " + e.Reason
}
