package repository

import "errors"

var (
	// ErrNotFound indica que o registro solicitado não existe (ou não pertence
	// ao dono do escopo da consulta).
	ErrNotFound = errors.New("not found")

	// ErrConflict indica violação de constraint (email duplicado).
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indica que o store está inacessível ou a operação
	// estourou timeout.
	ErrUnavailable = errors.New("store unavailable")
)

// IsNotFound verifica se o erro é ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict verifica se o erro é ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsUnavailable verifica se o erro é ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
