package model

// 読み取り系の操作に明示的に渡す「誰として見るか」。
// roleの文字列比較をusecase内に散らさないための値。
type Viewer struct {
	UserID int64
	Role   Role
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// 所有者または管理者だけが注文を見られる
func (v Viewer) CanViewOrder(ownerUserID int64) bool {
	return v.IsAdmin() || v.UserID == ownerUserID
}
