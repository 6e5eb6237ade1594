// Package textutil provides small text clean-up helpers applied to subtitle
// lines before they are styled.
package textutil
