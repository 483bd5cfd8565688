package sda

// Classes and tags of the structured text schema. A structured text owns
// a sequence of paragraphs; each paragraph has contents and a named
// paragraph style.
const (
	ClassStText    Class = 14
	ClassStTxtPara Class = 16

	TagParagraphs Tag = 14001
	TagStyleRules Tag = 15002
	TagContents   Tag = 16002
)
