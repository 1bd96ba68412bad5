package service

import (
	"fmt"
	"strings"
	"time"

	"budget/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务：状态维护结果通知
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendMaintenanceReport 发送状态维护报告邮件
func (s *EmailService) SendMaintenanceReport(toEmail string, expired, finished int64, at time.Time) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}
	if toEmail == "" {
		return fmt.Errorf("未配置维护报告收件人")
	}

	subject := "【预算系统】状态维护报告"
	body := s.generateMaintenanceReportBody(expired, finished, at)

	return s.sendEmail(toEmail, subject, body)
}

// SendExpiredBudgetsNotice 发送预算过期提醒邮件
func (s *EmailService) SendExpiredBudgetsNotice(toEmail string, codes []string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}
	if toEmail == "" {
		return fmt.Errorf("收件人邮箱为空")
	}

	subject := "【预算系统】预算过期提醒"
	body := s.generateExpiredNoticeBody(codes)

	return s.sendEmail(toEmail, subject, body)
}

// generateMaintenanceReportBody 生成维护报告邮件内容
func (s *EmailService) generateMaintenanceReportBody(expired, finished int64, at time.Time) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .stat { display: inline-block; margin: 10px 20px 10px 0; padding: 16px 24px; background: #f8f9fa; border-radius: 8px; }
        .stat .num { font-size: 28px; font-weight: 700; color: #2563eb; }
        .stat .label { font-size: 13px; color: #6c757d; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📊 预算系统</h1>
        </div>
        <div class="content">
            <p>本次预算状态维护已完成（%s）：</p>
            <div class="stat"><div class="num">%d</div><div class="label">过期预算</div></div>
            <div class="stat"><div class="num">%d</div><div class="label">完成预算</div></div>
            <p>过期预算已不可继续缴款，如有疑问请登录系统查看详情。</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿直接回复。</p>
        </div>
    </div>
</body>
</html>
`, at.Format("2006-01-02 15:04:05"), expired, finished)
}

// generateExpiredNoticeBody 生成过期提醒邮件内容
func (s *EmailService) generateExpiredNoticeBody(codes []string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #dc2626, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>⏰ 预算系统</h1>
        </div>
        <div class="content">
            <p>以下预算已超过截止日期，状态已变更为「已过期」：</p>
            <p><strong>%s</strong></p>
            <div class="warning">
                <p>⚠️ 已过期的预算不能再缴款，状态也不会再变化。</p>
            </div>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿直接回复。</p>
        </div>
    </div>
</body>
</html>
`, strings.Join(codes, "、"))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
