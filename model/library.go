package model

type FileNum = uint32
type FileNumToTabPath = map[FileNum]string
