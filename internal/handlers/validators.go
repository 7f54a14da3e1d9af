package handlers

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the ledger's binding tags to gin's validator engine.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			slog.Warn("Gin validator engine is not go-playground/validator; custom tags disabled")
			return
		}
		if err := v.RegisterValidation("money", validateMoney); err != nil {
			slog.Error("Failed to register money validator", slog.String("error", err.Error()))
		}
		if err := v.RegisterValidation("entrytype", validateEntryType); err != nil {
			slog.Error("Failed to register entrytype validator", slog.String("error", err.Error()))
		}
	})
}

// validateMoney accepts decimal strings with at most two fractional digits.
// Sign rules are left to the services.
func validateMoney(fl validator.FieldLevel) bool {
	_, err := domain.ParseMoney(fl.Field().String())
	return err == nil
}

func validateEntryType(fl validator.FieldLevel) bool {
	return domain.EntryType(strings.ToUpper(strings.TrimSpace(fl.Field().String()))).Valid()
}
