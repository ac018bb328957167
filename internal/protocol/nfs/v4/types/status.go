package types

// Every result starts with its nfsstat4. ResStatus exposes it without a
// type switch over the result structs.

func (r *AccessRes) ResStatus() uint32 { return r.Status }
func (r *GetattrRes) ResStatus() uint32 { return r.Status }
func (r *SetattrRes) ResStatus() uint32 { return r.Status }
func (r *VerifyRes) ResStatus() uint32 { return r.Status }
func (r *NverifyRes) ResStatus() uint32 { return r.Status }
func (r *OpenattrRes) ResStatus() uint32 { return r.Status }
func (r *CbGetattrRes) ResStatus() uint32 { return r.Status }
func (r *CbRecallRes) ResStatus() uint32 { return r.Status }
func (r *CbIllegalRes) ResStatus() uint32 { return r.Status }
func (r *SetclientidRes) ResStatus() uint32 { return r.Status }
func (r *SetclientidConfirmRes) ResStatus() uint32 { return r.Status }
func (r *RenewRes) ResStatus() uint32 { return r.Status }
func (r *CreateRes) ResStatus() uint32 { return r.Status }
func (r *LinkRes) ResStatus() uint32 { return r.Status }
func (r *RemoveRes) ResStatus() uint32 { return r.Status }
func (r *RenameRes) ResStatus() uint32 { return r.Status }
func (r *ReaddirRes) ResStatus() uint32 { return r.Status }
func (r *ReadlinkRes) ResStatus() uint32 { return r.Status }
func (r *SecinfoRes) ResStatus() uint32 { return r.Status }
func (r *GetfhRes) ResStatus() uint32 { return r.Status }
func (r *PutfhRes) ResStatus() uint32 { return r.Status }
func (r *PutpubfhRes) ResStatus() uint32 { return r.Status }
func (r *PutrootfhRes) ResStatus() uint32 { return r.Status }
func (r *SavefhRes) ResStatus() uint32 { return r.Status }
func (r *RestorefhRes) ResStatus() uint32 { return r.Status }
func (r *LookupRes) ResStatus() uint32 { return r.Status }
func (r *LookuppRes) ResStatus() uint32 { return r.Status }
func (r *IllegalRes) ResStatus() uint32 { return r.Status }
func (r *ReadRes) ResStatus() uint32 { return r.Status }
func (r *WriteRes) ResStatus() uint32 { return r.Status }
func (r *CommitRes) ResStatus() uint32 { return r.Status }
func (r *LockRes) ResStatus() uint32 { return r.Status }
func (r *LocktRes) ResStatus() uint32 { return r.Status }
func (r *LockuRes) ResStatus() uint32 { return r.Status }
func (r *ReleaseLockownerRes) ResStatus() uint32 { return r.Status }
func (r *OpenRes) ResStatus() uint32 { return r.Status }
func (r *OpenConfirmRes) ResStatus() uint32 { return r.Status }
func (r *OpenDowngradeRes) ResStatus() uint32 { return r.Status }
func (r *CloseRes) ResStatus() uint32 { return r.Status }
func (r *DelegpurgeRes) ResStatus() uint32 { return r.Status }
func (r *DelegreturnRes) ResStatus() uint32 { return r.Status }
