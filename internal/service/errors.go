package service

import "errors"

var (
	// ErrPostNotFound 帖子不存在
	ErrPostNotFound = errors.New("post not found")
	// ErrForbidden 已认证但不是资源作者
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidContent 内容校验失败（去空白后长度越界）
	ErrInvalidContent = errors.New("invalid content")
	// ErrInvalidParent 父评论不存在或不属于该帖子
	ErrInvalidParent = errors.New("invalid parent comment")
	// ErrConflict 前置条件在并发下失效（如条件删除影响 0 行），可重试
	ErrConflict = errors.New("concurrent modification, retry")
)
