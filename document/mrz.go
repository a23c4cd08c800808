package document

import (
	"fmt"

	gmrtd "github.com/gmrtd/gmrtd/document"
	"github.com/gmrtd/gmrtd/utils"
)

// FieldsFromDG1 decodes a hex-encoded DG1 readout (the MRZ data group as
// chip readers deliver it) into a RawFieldSet. The heavy lifting is gmrtd's;
// this adapter only flattens its MRZ structure into the field dict the
// pipeline consumes.
func FieldsFromDG1(dg1Hex string) (RawFieldSet, error) {
	data := utils.HexToBytes(dg1Hex)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty DG1 data")
	}

	dg1, err := gmrtd.NewDG1(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DG1: %w", err)
	}

	return RawFieldSet{
		FieldDocumentNumber: dg1.Mrz.DocumentNumber,
		FieldDocumentType:   dg1.Mrz.DocumentCode,
		FieldSurname:        dg1.Mrz.NameOfHolder.Primary,
		FieldGivenNames:     dg1.Mrz.NameOfHolder.Secondary,
		FieldSex:            dg1.Mrz.Sex,
		FieldNationality:    dg1.Mrz.Nationality,
		FieldBirthDate:      dg1.Mrz.DateOfBirth,
		FieldExpiryDate:     dg1.Mrz.DateOfExpiry,
	}, nil
}
