package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/dto"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// ClinicalService is the subset of *service.ClinicalService used here.
type ClinicalService interface {
	ListAllergies(ctx context.Context, patientID int64) ([]domain.Allergy, error)
	AddAllergy(ctx context.Context, patientID int64, in service.AllergyInput) (*domain.Allergy, error)
	DeleteAllergy(ctx context.Context, patientID, allergyID int64) error
	ListDiagnoses(ctx context.Context, patientID int64) ([]domain.Diagnosis, error)
	AddDiagnosis(ctx context.Context, patientID int64, in service.DiagnosisInput) (*domain.Diagnosis, error)
	ResolveDiagnosis(ctx context.Context, patientID, diagnosisID int64) error
	ListMedications(ctx context.Context, patientID int64) ([]domain.Medication, error)
	AddMedication(ctx context.Context, patientID int64, in service.MedicationInput) (*domain.Medication, error)
	DiscontinueMedication(ctx context.Context, patientID, medicationID int64) error
}

// ClinicalHandler serves allergies, diagnoses and medications under /patients/:id.
type ClinicalHandler struct {
	clinical ClinicalService
}

func NewClinicalHandler(clinical ClinicalService) *ClinicalHandler {
	return &ClinicalHandler{clinical: clinical}
}

func (h *ClinicalHandler) ListAllergies(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	allergies, err := h.clinical.ListAllergies(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAllergyList(allergies))
}

func (h *ClinicalHandler) AddAllergy(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AllergyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	allergy, err := h.clinical.AddAllergy(c.UserContext(), patientID, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAllergyResponse(allergy))
}

func (h *ClinicalHandler) DeleteAllergy(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	allergyID, err := paramID(c, "allergyId")
	if err != nil {
		return err
	}
	if err := h.clinical.DeleteAllergy(c.UserContext(), patientID, allergyID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ClinicalHandler) ListDiagnoses(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	diagnoses, err := h.clinical.ListDiagnoses(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDiagnosisList(diagnoses))
}

func (h *ClinicalHandler) AddDiagnosis(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DiagnosisRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}
	diagnosis, err := h.clinical.AddDiagnosis(c.UserContext(), patientID, in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewDiagnosisResponse(diagnosis))
}

// ResolveDiagnosis handles POST /patients/:id/diagnoses/:diagnosisId/resolve.
func (h *ClinicalHandler) ResolveDiagnosis(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	diagnosisID, err := paramID(c, "diagnosisId")
	if err != nil {
		return err
	}
	if err := h.clinical.ResolveDiagnosis(c.UserContext(), patientID, diagnosisID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ClinicalHandler) ListMedications(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	medications, err := h.clinical.ListMedications(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMedicationList(medications))
}

func (h *ClinicalHandler) AddMedication(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.MedicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}
	medication, err := h.clinical.AddMedication(c.UserContext(), patientID, in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewMedicationResponse(medication))
}

// DiscontinueMedication handles POST /patients/:id/medications/:medicationId/discontinue.
func (h *ClinicalHandler) DiscontinueMedication(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	medicationID, err := paramID(c, "medicationId")
	if err != nil {
		return err
	}
	if err := h.clinical.DiscontinueMedication(c.UserContext(), patientID, medicationID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
