package stepsdk

import (
	"strings"
	"unicode/utf8"
)

// NicknameMaxLen is counted in characters.
const NicknameMaxLen = 64

func validateNickname(errs map[string]string, nickname string) {
	n := strings.TrimSpace(nickname)
	switch {
	case n == "":
		errs["nickname"] = "must not be empty"
	case utf8.RuneCountInString(n) > NicknameMaxLen:
		errs["nickname"] = "must be at most 64 characters"
	}
}

func result(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate returns per-field problems, or nil.
func (r SaveProfileRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Nickname != nil {
		validateNickname(errs, *r.Nickname)
	}
	if r.TotalSteps != nil && *r.TotalSteps < 0 {
		errs["total_steps"] = "must not be negative"
	}
	return result(errs)
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errs := map[string]string{}
	validateNickname(errs, r.Nickname)
	return result(errs)
}

func (r SetStepsRequest) Validate() map[string]string {
	if r.TotalSteps <= 0 {
		return map[string]string{"total_steps": "must be greater than zero"}
	}
	return nil
}

func (r IncrementStepsRequest) Validate() map[string]string {
	if r.Delta <= 0 {
		return map[string]string{"delta": "must be greater than zero"}
	}
	return nil
}

func (r AdminActionRequest) Validate() map[string]string {
	errs := map[string]string{}
	switch r.Action {
	case ActionApprove, ActionBlock, ActionDelete, ActionPromote, ActionDemote:
	default:
		errs["action"] = "must be one of approve, block, delete, promote, demote"
	}
	if strings.TrimSpace(r.TargetID) == "" {
		errs["target_id"] = "required"
	}
	return result(errs)
}
