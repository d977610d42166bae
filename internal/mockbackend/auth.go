package mockbackend

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const contextKeyAccount = "account"

var errInvalidToken = errors.New("invalid token")

// issueToken signs a token carrying the claims the real backend issues
func (s *Server) issueToken(acc *account) (string, error) {
	now := time.Now()
	claims := tokenstore.Claims{
		Email:       acc.user.Email,
		Authorities: string(acc.user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *Server) validateToken(raw string) (*tokenstore.Claims, error) {
	claims := &tokenstore.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// authenticated rejects requests without a valid bearer token
func (s *Server) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerPrefix = "Bearer "
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || len(header) <= len(bearerPrefix) {
			response.Unauthorized(c, "Invalid token")
			return
		}

		claims, err := s.validateToken(header[len(bearerPrefix):])
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		s.mu.Lock()
		acc, ok := s.accounts[claims.Email]
		s.mu.Unlock()
		if !ok {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(contextKeyAccount, acc)
		c.Next()
	}
}

func currentAccount(c *gin.Context) *account {
	return c.MustGet(contextKeyAccount).(*account)
}

func (s *Server) respondToken(c *gin.Context, acc *account, message string) {
	token, err := s.issueToken(acc)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, dto.AuthResponse{JWT: token, Message: message, Role: acc.user.Role})
}

func (s *Server) sendOtp(c *gin.Context) {
	var req dto.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	s.otps[req.Email] = s.cfg.OTP
	s.mu.Unlock()

	s.log.Info("otp sent", zap.String("email", req.Email), zap.String("role", string(req.Role)))
	response.OK(c, dto.APIResponse{Message: "otp sent successfully", Status: true})
}

// takeOtp consumes the pending code for email. Must be called with mu held.
func (s *Server) takeOtp(email, otp string) bool {
	code, ok := s.otps[email]
	if !ok || code != otp {
		return false
	}
	delete(s.otps, email)
	return true
}

func (s *Server) signin(c *gin.Context) {
	s.otpLogin(c, domain.RoleCustomer, "Login success")
}

func (s *Server) sellerLogin(c *gin.Context) {
	s.otpLogin(c, domain.RoleSeller, "Seller login success")
}

func (s *Server) otpLogin(c *gin.Context, role domain.Role, message string) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	if !s.takeOtp(req.Email, req.OTP) {
		s.mu.Unlock()
		response.BadRequest(c, "Invalid OTP")
		return
	}
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()

	if !ok || !roleAllowed(acc, role) {
		response.BadRequest(c, "User not found with email: "+req.Email)
		return
	}
	s.respondToken(c, acc, message)
}

func (s *Server) loginPassword(c *gin.Context) {
	s.passwordLogin(c, domain.RoleCustomer)
}

func (s *Server) sellerLoginPassword(c *gin.Context) {
	s.passwordLogin(c, domain.RoleSeller)
}

func (s *Server) passwordLogin(c *gin.Context, role domain.Role) {
	var req dto.PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()

	if !ok || !roleAllowed(acc, role) ||
		bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		response.BadRequest(c, "Invalid email or password")
		return
	}
	s.respondToken(c, acc, "Login success")
}

// roleAllowed lets admins through the customer endpoints
func roleAllowed(acc *account, role domain.Role) bool {
	if role == domain.RoleSeller {
		return acc.user.Role == domain.RoleSeller
	}
	return acc.user.Role != domain.RoleSeller
}

func (s *Server) signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	if !s.takeOtp(req.Email, req.OTP) {
		s.mu.Unlock()
		response.BadRequest(c, "Invalid OTP")
		return
	}
	acc, exists := s.accounts[req.Email]
	if !exists {
		acc = s.addAccount(req.Email, req.FullName, "", domain.RoleCustomer)
	}
	s.mu.Unlock()

	s.respondToken(c, acc, "Register success")
}

func (s *Server) signupSendOtp(c *gin.Context) {
	var req dto.SignupWithPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		response.BadRequest(c, "Email already registered")
		return
	}
	s.pending[req.Email] = &account{
		user:         domain.User{FullName: req.FullName, Email: req.Email, Role: domain.RoleCustomer},
		passwordHash: hashPassword(req.Password),
	}
	s.otps[req.Email] = s.cfg.OTP
	s.mu.Unlock()

	response.OK(c, dto.APIResponse{Message: "OTP sent to your email", Status: true})
}

func (s *Server) signupVerifyOtp(c *gin.Context) {
	var req dto.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.mu.Lock()
	pending, ok := s.pending[req.Email]
	if !ok {
		s.mu.Unlock()
		response.BadRequest(c, "No pending signup found. Please request OTP again.")
		return
	}
	if !s.takeOtp(req.Email, req.OTP) {
		s.mu.Unlock()
		response.BadRequest(c, "Invalid OTP. Please try again.")
		return
	}
	delete(s.pending, req.Email)
	pending.user.ID = s.id()
	s.accounts[req.Email] = pending
	s.mu.Unlock()

	s.respondToken(c, pending, "Register success")
}

func (s *Server) profile(c *gin.Context) {
	acc := currentAccount(c)
	if acc.user.Role == domain.RoleSeller {
		response.Error(c, http.StatusForbidden, "Not a customer account")
		return
	}
	response.OK(c, acc.user)
}

func (s *Server) sellerProfile(c *gin.Context) {
	acc := currentAccount(c)
	if acc.seller == nil {
		response.NotFound(c, "Seller not found")
		return
	}
	response.OK(c, acc.seller)
}

// hashPassword returns nil for an empty password so no password matches
func hashPassword(password string) []byte {
	if password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil
	}
	return hash
}
