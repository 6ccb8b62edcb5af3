package usecase

const otpEmailSubject = `Your OTP for {{.clinic_name}}`

const otpEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 480px; margin: 0 auto; padding: 24px;">
    <h2 style="color: #0f766e;">{{.clinic_name}}</h2>
    <p>Hello {{.name}},</p>
    <p>Your one-time password is:</p>
    <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.code}}</p>
    <p>This code is valid for {{.minutes}} minutes. Do not share it with anyone.</p>
    <p style="font-size: 12px; color: #6b7280;">If you did not request this code, you can ignore this email.</p>
    <p style="font-size: 12px; color: #6b7280;">&copy; {{.year}} {{.clinic_name}}</p>
  </div>
</body>
</html>`

const otpEmailText = `Hello {{.name}},

Your OTP for {{.clinic_name}} is: {{.code}}
This code is valid for {{.minutes}} minutes. Do not share it with anyone.`

const otpSMSText = `Your OTP for {{.clinic_name}} is: {{.code}}. Valid for {{.minutes}} minutes. Do not share with anyone.`
