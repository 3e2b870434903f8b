// SPDX-License-Identifier: GPL-2.0-or-later

package prefs

import (
	"strconv"
)

type Flag uint32

const (
	None Flag = 0
	// Archive values are written by Save.
	Archive Flag = 1
	// ReadOnly values ignore every change.
	ReadOnly Flag = 1 << 1
	// UserDefined values were created by Set without a registration.
	UserDefined Flag = 1 << 2
)

// Value is one named preference. The string is the truth, the float is
// derived from it.
type Value struct {
	owner        *Preferences
	name         string
	flags        Flag
	stringValue  string
	value        float32
	defaultValue string
}

func (v *Value) Name() string {
	return v.name
}

func (v *Value) Archive() bool {
	return v.flags&Archive != 0
}

func (v *Value) UserDefined() bool {
	return v.flags&UserDefined != 0
}

func (v *Value) String() string {
	return v.stringValue
}

func (v *Value) Value() float32 {
	return v.value
}

func (v *Value) Bool() bool {
	return v.stringValue != "" && v.stringValue != "0"
}

func (v *Value) Default() string {
	return v.defaultValue
}

func (v *Value) set(s string) {
	v.stringValue = s
	f, _ := strconv.ParseFloat(s, 32)
	v.value = float32(f)
}

// SetByString changes the value and notifies the owner if it differs.
func (v *Value) SetByString(s string) {
	if v.flags&ReadOnly != 0 || s == v.stringValue {
		return
	}
	v.set(s)
	if v.owner != nil {
		v.owner.DidChange.Notify(v.name)
	}
}

func (v *Value) SetValue(f float32) {
	if float32(int(f)) == f {
		v.SetByString(strconv.FormatInt(int64(f), 10))
		return
	}
	v.SetByString(strconv.FormatFloat(float64(f), 'f', -1, 32))
}

func (v *Value) SetBool(b bool) {
	if b {
		v.SetByString("1")
	} else {
		v.SetByString("0")
	}
}

func (v *Value) Toggle() {
	v.SetBool(!v.Bool())
}

func (v *Value) Reset() {
	v.SetByString(v.defaultValue)
}
