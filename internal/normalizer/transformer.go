package normalizer

import (
	"schaledb/internal/document"
	"schaledb/internal/models"
)

// Builder turns one raw record into a typed record or a *ValidationError.
type Builder[T models.Record] func(f document.Fields) (T, error)

// BuildItem reads Id and Name.
func BuildItem(f document.Fields) (models.Item, error) {
	id, err := intField(f, FieldID)
	if err != nil {
		return models.Item{}, err
	}

	name, err := stringField(f, FieldName)
	if err != nil {
		return models.Item{}, err
	}

	return models.Item{ID: id, Name: name}, nil
}

// BuildStudent reads Id and Name.
func BuildStudent(f document.Fields) (models.Student, error) {
	id, err := intField(f, FieldID)
	if err != nil {
		return models.Student{}, err
	}

	name, err := stringField(f, FieldName)
	if err != nil {
		return models.Student{}, err
	}

	return models.Student{ID: id, Name: name}, nil
}

// BuildEquipment reads Id, Category, Rarity, Tier, Icon and Name, in that order.
func BuildEquipment(f document.Fields) (models.Equipment, error) {
	var (
		eq  models.Equipment
		err error
	)

	if eq.ID, err = intField(f, FieldID); err != nil {
		return models.Equipment{}, err
	}

	if eq.Category, err = stringField(f, FieldCategory); err != nil {
		return models.Equipment{}, err
	}

	if eq.Rarity, err = rarityField(f, FieldRarity); err != nil {
		return models.Equipment{}, err
	}

	if eq.Tier, err = intField(f, FieldTier); err != nil {
		return models.Equipment{}, err
	}

	if eq.Icon, err = stringField(f, FieldIcon); err != nil {
		return models.Equipment{}, err
	}

	if eq.Name, err = stringField(f, FieldName); err != nil {
		return models.Equipment{}, err
	}

	return eq, nil
}
