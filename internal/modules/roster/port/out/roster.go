package out

import (
	"context"

	"stc/internal/modules/roster/domain"
)

type PatientStore interface {
	Save(ctx context.Context, document domain.PatientDocument) (string, error)
	FindByID(ctx context.Context, id string) (domain.PatientDocument, error)
	List(ctx context.Context) ([]domain.PatientDocument, error)
}

type PatientIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertPatient(ctx context.Context, patient domain.Patient) error
}
