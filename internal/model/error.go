package model

import "errors"

var ErrorLockNotFound = errors.New("lock not found")
var ErrorInviteNotFound = errors.New("invite code not found")
var ErrorUserNotFound = errors.New("user not found")
var ErrorAccessNotFound = errors.New("access not found")
var ErrorAlreadyMember = errors.New("already registered on this lock")
var ErrorLockAlreadyRegistered = errors.New("lock already registered to an admin")
var ErrorLockNotReady = errors.New("lock has no admin yet")
var ErrorForbidden = errors.New("operation not permitted")
var ErrorEmailTaken = errors.New("email already registered")
var ErrorInvalidStatus = errors.New("invalid lock status")
var ErrorSelfDemotion = errors.New("cannot remove own admin role")
var ErrorInvalidUsernameOrPassword = errors.New("invalid username or password")
