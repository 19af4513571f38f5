package models

// CreateWorkspaceRequest represents a request to create a workspace
type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// AddMemberRequest grants a pubkey a role in a workspace
type AddMemberRequest struct {
	Pubkey string     `json:"pubkey" binding:"required,hexadecimal,len=66"`
	Role   MemberRole `json:"role" binding:"required,oneof=OWNER ADMIN CONTRIBUTOR VIEWER"`
}

// DepositRequest adds sats to a workspace budget
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateBountyRequest represents a request to post a new bounty
type CreateBountyRequest struct {
	Title           string       `json:"title" binding:"required,max=255"`
	Description     string       `json:"description"`
	Amount          int64        `json:"amount" binding:"required,gt=0"`
	Tags            []string     `json:"tags"`
	CodingLanguages []string     `json:"codingLanguages"`
	Status          BountyStatus `json:"status" binding:"omitempty,oneof=DRAFT OPEN"`
}

type ClaimBountyRequest struct {
	Message string `json:"message"`
}

type UnclaimBountyRequest struct {
	Reason string `json:"reason" binding:"required,min=10"`
}

type SubmitProofRequest struct {
	ProofURL    string `json:"proofUrl" binding:"required,url"`
	Description string `json:"description"`
}

type ReviewProofRequest struct {
	Status      ProofStatus `json:"status" binding:"required,oneof=ACCEPTED REJECTED CHANGES_REQUESTED"`
	ReviewNotes string      `json:"reviewNotes"`
}

type CompleteBountyRequest struct {
	BountyID string `json:"bountyId" binding:"required"`
}

type CancelBountyRequest struct {
	BountyID string `json:"bountyId" binding:"required"`
	Reason   string `json:"reason" binding:"required,min=10"`
}

// MarkPaidRequest optionally carries the Lightning payment hash of the payout
type MarkPaidRequest struct {
	PaymentHash string `json:"paymentHash" binding:"omitempty,hexadecimal,len=64"`
}

// LoginRequest is an LNURL-auth style signed challenge
type LoginRequest struct {
	Pubkey    string `json:"pubkey" binding:"required,hexadecimal,len=66"`
	K1        string `json:"k1" binding:"required,hexadecimal,len=64"`
	Signature string `json:"sig" binding:"required,hexadecimal"`
}
