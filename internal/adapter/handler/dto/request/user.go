package request

// UpdateProfileRequest arrives as multipart form fields so the avatar file can
// ride along in the same request. Absent fields leave the profile untouched.
type UpdateProfileRequest struct {
	Name     *string `form:"name" binding:"omitempty,min=3,max=50"`
	Password *string `form:"password" binding:"omitempty,min=6,max=72"`
	Bio      *string `form:"bio" binding:"omitempty,max=500"`
}
