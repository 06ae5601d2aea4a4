// internal/models/enums.go
package models

import "fmt"

// Security is the collateral type pledged against the loan.
type Security string

const (
	SecurityVehicle  Security = "Vehicle"
	SecurityProperty Security = "Property"
	SecurityCoSigner Security = "Co-Signer"
	SecurityNone     Security = "None"
)

var Securities = []Security{SecurityVehicle, SecurityProperty, SecurityCoSigner, SecurityNone}

func (s Security) IsValid() bool {
	switch s {
	case SecurityVehicle, SecurityProperty, SecurityCoSigner, SecurityNone:
		return true
	}
	return false
}

// FileType identifies the kind of document stored for an application.
type FileType string

const (
	FileTypeContract       FileType = "contract"
	FileTypeIDProof        FileType = "id_proof"
	FileTypeBankStatement  FileType = "bank_statement"
	FileTypePayStub        FileType = "pay_stub"
	FileTypeAdditionalDoc  FileType = "additional_doc"
	FileTypePhotoID        FileType = "photo_id"
	FileTypeProofOfAddress FileType = "proof_of_address"
)

var FileTypes = []FileType{
	FileTypeContract,
	FileTypeIDProof,
	FileTypeBankStatement,
	FileTypePayStub,
	FileTypeAdditionalDoc,
	FileTypePhotoID,
	FileTypeProofOfAddress,
}

func (f FileType) IsValid() bool {
	for _, ft := range FileTypes {
		if f == ft {
			return true
		}
	}
	return false
}

// ParseFileType validates a raw query-string value.
func ParseFileType(raw string) (FileType, error) {
	ft := FileType(raw)
	if !ft.IsValid() {
		return "", fmt.Errorf("invalid file type %q", raw)
	}
	return ft, nil
}

// Provinces are the two-letter province and territory codes accepted in
// address blocks.
var Provinces = []string{
	"AB", "BC", "MB", "NB", "NL", "NT", "NS", "NU", "ON", "PE", "QC", "SK", "YT",
}

// MaritalStatuses are the accepted marital status values.
var MaritalStatuses = []string{
	"Single", "Married", "Common-law", "Divorced", "Separated", "Widowed",
}

// ResidencyStatuses are the accepted status-in-Canada values.
var ResidencyStatuses = []string{
	"Canadian Citizen", "Permanent Resident", "Work Permit", "Student Permit", "Visitor",
}

// IsValidProvince reports membership in Provinces.
func IsValidProvince(p string) bool { return contains(Provinces, p) }

// IsValidMaritalStatus reports membership in MaritalStatuses.
func IsValidMaritalStatus(m string) bool { return contains(MaritalStatuses, m) }

// IsValidResidencyStatus reports membership in ResidencyStatuses.
func IsValidResidencyStatus(s string) bool { return contains(ResidencyStatuses, s) }

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
