package domain

// Transfer purposes and reasons carried by the write path. A generic
// transfer has no purpose; withdrawals and inter-company movements are
// specialized by these markers.
const (
	TransferPurposePersonal     = "personal"
	TransferPurposeInterCompany = "inter_company"
	TransferReasonPersonalUse   = "personal_use"
)

// InterCompanyCategoryName is the category auto-resolved for inter-company
// legs when the caller supplies none.
const InterCompanyCategoryName = "Inter-company"
