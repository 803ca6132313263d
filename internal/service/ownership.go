package service

// isOwner 归属判定：编辑与删除路径共用的纯谓词
func isOwner(authorID, requesterID int64) bool {
	return authorID == requesterID
}
