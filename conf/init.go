// Package conf reads analysis profiles from an ini file
//
//	[bricks]
//	width-step = 0.004
//	height-step = 0.002
//	module = 0
//	materials = laterizio, pietra
//	include-unclassified = false
//
// it also adds the built-in bricks and components profiles,
// so that a profile is always found for either workflow
package conf
