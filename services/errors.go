package services

import "errors"

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки бизнес-правил
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentNotActive               = errors.New("tournament is not active")
	ErrNotEnoughParticipants             = errors.New("at least two participants are required")
	ErrRoundInProgress                   = errors.New("current round still has unfinished matches")
	ErrRoundConflict                     = errors.New("matches for this round already exist")
	ErrInvalidWinner                     = errors.New("winner must be one of the match players")
	ErrMatchIsBye                        = errors.New("a bye has no result to submit")
	ErrMatchAlreadyCompleted             = errors.New("match result already recorded")
	ErrUnsupportedFormat                 = errors.New("tournament format is not supported")

	// Данные из хранилища, которые нельзя передавать движку
	ErrInvalidMatchData = errors.New("invalid match data")
)
