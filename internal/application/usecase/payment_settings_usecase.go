package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/secretbox"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// PaymentSettingsUseCase configuración de la pasarela de pagos (fila única).
// Los secretos se cifran en reposo si hay clave y nunca salen sin enmascarar.
type PaymentSettingsUseCase struct {
	d    Deps
	repo repository.PaymentSettingsRepository
	box  *secretbox.Box
}

// NewPaymentSettingsUseCase construye el caso de uso. box puede ser nil (secretos en claro).
func NewPaymentSettingsUseCase(d Deps, repo repository.PaymentSettingsRepository, box *secretbox.Box) *PaymentSettingsUseCase {
	return &PaymentSettingsUseCase{d: d.withDefaults(), repo: repo, box: box}
}

// Get configuración enmascarada (admin).
func (uc *PaymentSettingsUseCase) Get(ctx context.Context) query.Result[dto.PaymentSettingsResponse] {
	_, err := uc.d.admin()
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyPaymentSettings), defaultRead, err == nil,
		func(ctx context.Context) (dto.PaymentSettingsResponse, error) {
			s, err := uc.repo.Get(ctx)
			if err != nil {
				return dto.PaymentSettingsResponse{}, err
			}
			return uc.masked(s)
		})
}

// Save guarda la configuración. Un secreto vacío conserva el guardado.
func (uc *PaymentSettingsUseCase) Save(ctx context.Context, in dto.PaymentSettingsRequest) (dto.PaymentSettingsResponse, error) {
	if _, err := uc.d.admin(); err != nil {
		return dto.PaymentSettingsResponse{}, err
	}
	in.Provider = strings.TrimSpace(in.Provider)
	if err := validation.Struct(in); err != nil {
		return dto.PaymentSettingsResponse{}, err
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Payment settings updated successfully",
		fallback:   "Failed to update payment settings",
		invalidate: []query.Key{entityKey(KeyPaymentSettings)},
	}, func(ctx context.Context) (dto.PaymentSettingsResponse, error) {
		current, err := uc.repo.Get(ctx)
		if err != nil {
			return dto.PaymentSettingsResponse{}, err
		}
		next := entity.PaymentGatewaySettings{
			Provider:  in.Provider,
			PublicKey: in.PublicKey,
			TestMode:  in.TestMode,
		}
		if current != nil {
			next.ID = current.ID
			next.SecretKey = current.SecretKey
			next.WebhookSecret = current.WebhookSecret
		}
		if in.SecretKey != "" {
			if next.SecretKey, err = uc.box.Seal(in.SecretKey); err != nil {
				return dto.PaymentSettingsResponse{}, err
			}
		}
		if in.WebhookSecret != nil && *in.WebhookSecret != "" {
			sealed, err := uc.box.Seal(*in.WebhookSecret)
			if err != nil {
				return dto.PaymentSettingsResponse{}, err
			}
			next.WebhookSecret = &sealed
		}
		saved, err := uc.repo.Save(ctx, next)
		if err != nil {
			return dto.PaymentSettingsResponse{}, err
		}
		return uc.masked(saved)
	})
}

// Secrets devuelve la configuración con los secretos descifrados, para integraciones del servidor.
func (uc *PaymentSettingsUseCase) Secrets(ctx context.Context) (*entity.PaymentGatewaySettings, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil || s == nil {
		return s, err
	}
	out := *s
	if out.SecretKey, err = uc.box.Open(s.SecretKey); err != nil {
		return nil, err
	}
	if s.WebhookSecret != nil {
		plain, err := uc.box.Open(*s.WebhookSecret)
		if err != nil {
			return nil, err
		}
		out.WebhookSecret = &plain
	}
	return &out, nil
}

func (uc *PaymentSettingsUseCase) masked(s *entity.PaymentGatewaySettings) (dto.PaymentSettingsResponse, error) {
	if s == nil {
		return dto.PaymentSettingsResponse{Provider: "paystack", TestMode: true}, nil
	}
	out := dto.PaymentSettingsResponse{
		Provider:   s.Provider,
		PublicKey:  s.PublicKey,
		TestMode:   s.TestMode,
		Configured: true,
	}
	if s.SecretKey != "" {
		plain, err := uc.box.Open(s.SecretKey)
		if err != nil {
			return dto.PaymentSettingsResponse{}, err
		}
		out.SecretKey = MaskSecret(plain)
		out.HasSecretKey = true
	}
	if s.WebhookSecret != nil && *s.WebhookSecret != "" {
		plain, err := uc.box.Open(*s.WebhookSecret)
		if err != nil {
			return dto.PaymentSettingsResponse{}, err
		}
		out.WebhookSecret = MaskSecret(plain)
		out.HasWebhookSecret = true
	}
	return out, nil
}

// MaskSecret deja visibles solo los últimos 4 caracteres.
func MaskSecret(s string) string {
	const visible = 4
	if len(s) <= visible {
		return strings.Repeat("•", len(s))
	}
	return strings.Repeat("•", 8) + s[len(s)-visible:]
}
